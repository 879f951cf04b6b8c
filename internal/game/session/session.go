// Package session owns the state model built from one game stream and
// hands out immutable snapshots of it to concurrent readers.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/mudproxy/internal/game/ability"
	"github.com/cory-johannsen/mudproxy/internal/game/character"
	"github.com/cory-johannsen/mudproxy/internal/game/flags"
	"github.com/cory-johannsen/mudproxy/internal/game/markup"
	"github.com/cory-johannsen/mudproxy/internal/game/room"
	"github.com/cory-johannsen/mudproxy/internal/game/skill"
)

// ErrClosed is returned by Update after Close.
var ErrClosed = errors.New("session closed")

// Options configures a new Session. Zero fields get defaults.
type Options struct {
	Tables    *skill.Tables
	Flags     *flags.Registry
	Markup    markup.Source
	EchoGains bool
	// NoticeBuffer sizes the user notice queue.
	NoticeBuffer int
}

// Entities are the mutable state components. They are only reachable inside
// Update, under the session's write lock.
type Entities struct {
	Character *character.Character
	Room      *room.Snapshot
	Skills    *skill.Tracker
	Abilities *ability.Knowledge
}

// Session holds the state of one proxied game connection.
//
// All methods are safe for concurrent use.
type Session struct {
	id      uuid.UUID
	created time.Time
	flags   *flags.Registry
	markup  markup.Source
	tables  *skill.Tables
	notices *Notices

	mu       sync.RWMutex
	entities Entities
	echo     bool
	closed   bool
}

// New creates a Session with a fresh random ID.
//
// Postcondition: Returns a Session with empty state.
func New(opts Options) *Session {
	if opts.Tables == nil {
		opts.Tables = skill.DefaultTables()
	}
	if opts.Flags == nil {
		opts.Flags = flags.NewRegistry()
	}
	if opts.Markup == nil {
		opts.Markup = markup.NewStatic()
	}
	id := uuid.New()
	s := &Session{
		id:      id,
		created: time.Now(),
		flags:   opts.Flags,
		markup:  opts.Markup,
		tables:  opts.Tables,
		notices: NewNotices(id.String(), opts.NoticeBuffer),
		echo:    opts.EchoGains,
	}
	s.entities = s.freshEntities()
	return s
}

func (s *Session) freshEntities() Entities {
	tr := skill.NewTracker(s.tables)
	tr.SetEchoGains(s.echo)
	return Entities{
		Character: character.New(),
		Room:      &room.Snapshot{},
		Skills:    tr,
		Abilities: ability.New(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Flags returns the session's condition registry. The registry carries its
// own lock and may be used outside Update.
func (s *Session) Flags() *flags.Registry { return s.flags }

// Markup returns the upstream markup source.
func (s *Session) Markup() markup.Source { return s.markup }

// Notices returns the user notice queue.
func (s *Session) Notices() *Notices { return s.notices }

// Update runs fn with exclusive access to the mutable entities.
//
// Postcondition: returns fn's error, or ErrClosed without calling fn.
func (s *Session) Update(fn func(*Entities) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&s.entities)
}

// SetEchoGains turns skill gain recording on or off.
func (s *Session) SetEchoGains(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.echo = on
	s.entities.Skills.SetEchoGains(on)
}

// ResetCharacter discards all per-character state, for use when the player
// switches characters on the same connection. Flags are kept.
func (s *Session) ResetCharacter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = s.freshEntities()
}

// ResetSkills makes every skill's current value its new baseline.
func (s *Session) ResetSkills() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities.Skills.Reset()
}

// Close marks the session closed and closes its notice queue.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.notices.Close()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
