// Package markup defines the fields supplied by the upstream structured-markup
// decoder and an in-memory implementation of them.
package markup

import (
	"sort"
	"sync"
)

// Source exposes the already-decoded markup fields of the game stream.
type Source interface {
	RoomTitle() string
	RoomDescription() string
	RoomExits() []string
	ActiveSpells() map[string]int
	// Indicator reports a boolean status indicator such as "IconSTUNNED".
	Indicator(name string) bool
}

// Static is a Source whose fields are set directly. It is safe for
// concurrent use.
type Static struct {
	mu          sync.RWMutex
	title       string
	description string
	exits       []string
	spells      map[string]int
	indicators  map[string]bool
}

// NewStatic creates an empty Static source.
func NewStatic() *Static {
	return &Static{
		spells:     make(map[string]int),
		indicators: make(map[string]bool),
	}
}

// SetRoom replaces the room title, description and exits.
func (s *Static) SetRoom(title, description string, exits []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.description = description
	s.exits = append([]string(nil), exits...)
}

// SetActiveSpell records a spell with its remaining minutes; a negative
// duration removes it.
func (s *Static) SetActiveSpell(name string, minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if minutes < 0 {
		delete(s.spells, name)
		return
	}
	s.spells[name] = minutes
}

// SetIndicator sets a status indicator.
func (s *Static) SetIndicator(name string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators[name] = on
}

func (s *Static) RoomTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

func (s *Static) RoomDescription() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.description
}

func (s *Static) RoomExits() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.exits...)
}

func (s *Static) ActiveSpells() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.spells))
	for k, v := range s.spells {
		out[k] = v
	}
	return out
}

func (s *Static) Indicator(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indicators[name]
}

// Indicators returns the names of every indicator that is on, sorted.
func (s *Static) Indicators() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k, on := range s.indicators {
		if on {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
