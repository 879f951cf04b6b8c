package markup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/mudproxy/internal/game/markup"
)

func TestStatic_ImplementsSource(t *testing.T) {
	var _ markup.Source = markup.NewStatic()
}

func TestStatic_Room(t *testing.T) {
	s := markup.NewStatic()
	exits := []string{"north", "east"}
	s.SetRoom("[Crossing, Town Green]", "A wide lawn.", exits)
	exits[0] = "up"
	assert.Equal(t, "[Crossing, Town Green]", s.RoomTitle())
	assert.Equal(t, "A wide lawn.", s.RoomDescription())
	assert.Equal(t, []string{"north", "east"}, s.RoomExits())
}

func TestStatic_ActiveSpells(t *testing.T) {
	s := markup.NewStatic()
	s.SetActiveSpell("Shadows", 12)
	s.SetActiveSpell("Ease Burden", 3)
	s.SetActiveSpell("Ease Burden", -1)
	assert.Equal(t, map[string]int{"Shadows": 12}, s.ActiveSpells())
}

func TestStatic_Indicators(t *testing.T) {
	s := markup.NewStatic()
	s.SetIndicator("IconSTUNNED", true)
	s.SetIndicator("IconHIDDEN", false)
	assert.True(t, s.Indicator("IconSTUNNED"))
	assert.False(t, s.Indicator("IconHIDDEN"))
	assert.False(t, s.Indicator("IconKNEELING"))
	assert.Equal(t, []string{"IconSTUNNED"}, s.Indicators())
}
