package session

import (
	"time"

	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/room"
	"github.com/cory-johannsen/mudproxy/internal/game/skill"
)

// RoomView is the upstream markup portion of a snapshot.
type RoomView struct {
	Title        string         `yaml:"title" json:"title"`
	Description  string         `yaml:"description" json:"description"`
	Exits        []string       `yaml:"exits" json:"exits"`
	ActiveSpells map[string]int `yaml:"active_spells" json:"active_spells"`
}

// State is an immutable deep copy of a Session taken under its read lock.
// Readers may keep and share it freely.
type State struct {
	ID           string              `yaml:"id" json:"id"`
	TakenAt      time.Time           `yaml:"taken_at" json:"taken_at"`
	Character    character.Character `yaml:"character" json:"character"`
	Room         room.Snapshot       `yaml:"room" json:"room"`
	Markup       RoomView            `yaml:"markup" json:"markup"`
	Skills       []skill.Record      `yaml:"skills" json:"skills"`
	Gains        []skill.Gain        `yaml:"gains" json:"gains"`
	Modifiers    map[string]int      `yaml:"modifiers" json:"modifiers"`
	SessionStart time.Time           `yaml:"session_start" json:"session_start"`
	Spells       []string            `yaml:"spells" json:"spells"`
	Feats        []string            `yaml:"feats" json:"feats"`
	Layout       string              `yaml:"layout" json:"layout"`
	Flags        map[string]bool     `yaml:"flags" json:"flags"`
}

// Skill returns the record for a canonical skill name.
func (st State) Skill(name string) (skill.Record, bool) {
	for _, r := range st.Skills {
		if r.Name == name {
			return r, true
		}
	}
	return skill.Record{}, false
}

// Snapshot returns a deep copy of the current state.
//
// Postcondition: later updates to the session never change the returned State.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	e := s.entities
	st := State{
		ID:           s.id.String(),
		TakenAt:      time.Now(),
		Character:    *e.Character,
		Room:         e.Room.Clone(),
		Skills:       e.Skills.Records(),
		Gains:        e.Skills.Gains(),
		Modifiers:    e.Skills.Modifiers(),
		SessionStart: e.Skills.SessionStart(),
		Spells:       e.Abilities.Spells(),
		Feats:        e.Abilities.Feats(),
		Layout:       e.Abilities.Layout().String(),
	}
	s.mu.RUnlock()

	st.Flags = s.flags.Values()
	st.Markup = RoomView{
		Title:        s.markup.RoomTitle(),
		Description:  s.markup.RoomDescription(),
		Exits:        s.markup.RoomExits(),
		ActiveSpells: s.markup.ActiveSpells(),
	}
	return st
}

// SkillValue reads field f of the named skill.
func (s *Session) SkillValue(name string, f skill.Field) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities.Skills.Value(name, f)
}

// Knows reports whether name is a known spell or feat.
func (s *Session) Knows(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities.Abilities.KnowsSpell(name) || s.entities.Abilities.KnowsFeat(name)
}

// EchoGains reports whether skill gains are being recorded.
func (s *Session) EchoGains() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.echo
}
