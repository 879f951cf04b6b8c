package ability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/mudproxy/internal/game/ability"
)

func TestKnowledge_StartClearsOnce(t *testing.T) {
	k := ability.New()
	k.AddSpell("Stale")
	k.AddFeat("Old Feat")

	k.Start(ability.CaptureBarbarian)
	assert.Empty(t, k.Spells())
	assert.Empty(t, k.Feats())

	k.AddSpell("Avalanche")
	k.Start(ability.CaptureBarbarian)
	assert.Equal(t, []string{"Avalanche"}, k.Spells())
	assert.True(t, k.Capturing(ability.CaptureBarbarian))
	assert.False(t, k.Capturing(ability.CaptureKhri))
}

func TestKnowledge_RestartAlwaysClears(t *testing.T) {
	k := ability.New()
	k.Restart(ability.CaptureSpells)
	k.AddSpell("Stale")
	k.AddFeat("Old Feat")

	k.Restart(ability.CaptureSpells)
	assert.Empty(t, k.Spells())
	assert.Empty(t, k.Feats())
	assert.True(t, k.Capturing(ability.CaptureSpells))
}

func TestKnowledge_StopAll(t *testing.T) {
	k := ability.New()
	k.Start(ability.CaptureSpells)
	k.Start(ability.CaptureKhri)
	k.StopAll()
	assert.False(t, k.Capturing(ability.CaptureSpells))
	assert.False(t, k.Capturing(ability.CaptureKhri))
}

func TestKnowledge_SetsIgnoreEmptyAndDuplicates(t *testing.T) {
	k := ability.New()
	k.AddSpell("")
	k.AddSpell("Heal")
	k.AddSpell("Heal")
	k.AddFeat("Raw Channeling")
	assert.Equal(t, []string{"Heal"}, k.Spells())
	assert.True(t, k.KnowsSpell("Heal"))
	assert.False(t, k.KnowsSpell("Vitality Healing"))
	assert.True(t, k.KnowsFeat("Raw Channeling"))
}

func TestLayout_String(t *testing.T) {
	k := ability.New()
	assert.Equal(t, "unset", k.Layout().String())
	k.SetLayout(ability.LayoutColumn)
	assert.Equal(t, "column", k.Layout().String())
	assert.Equal(t, "non-column", ability.LayoutNonColumn.String())
}
