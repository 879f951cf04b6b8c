package skill

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cory-johannsen/mudproxy/internal/game/character"
)

// ErrUnknownSkill is returned when a queried skill is not tracked.
var ErrUnknownSkill = errors.New("unknown skill")

// ErrOutOfRange is returned when a reported value is outside its valid range.
var ErrOutOfRange = errors.New("value out of range")

// Record is the progress of one skill.
type Record struct {
	Name      string   `yaml:"name" json:"name"`
	Skillset  Skillset `yaml:"skillset" json:"skillset"`
	Rank      int      `yaml:"rank" json:"rank"`
	Mindstate int      `yaml:"mindstate" json:"mindstate"`
	Percent   int      `yaml:"percent" json:"percent"`
	// Current is Rank + Percent/100.
	Current  float64 `yaml:"current" json:"current"`
	Baseline float64 `yaml:"baseline" json:"baseline"`
}

// Gain is one positive mindstate change observed while gain echo is on.
type Gain struct {
	Skill     string    `yaml:"skill" json:"skill"`
	Delta     int       `yaml:"delta" json:"delta"`
	Mindstate int       `yaml:"mindstate" json:"mindstate"`
	At        time.Time `yaml:"at" json:"at"`
}

// Tracker holds the skills reported for the current character, in first-seen
// order.
//
// Tracker is not safe for concurrent use; the owning session serialises access.
type Tracker struct {
	tables    *Tables
	guild     character.Guild
	echoGains bool
	now       func() time.Time

	records   map[string]*Record
	order     []string
	gains     []Gain
	modifiers map[string]int
	started   time.Time
}

// NewTracker creates an empty Tracker backed by tables.
//
// Precondition: tables must not be nil.
func NewTracker(tables *Tables) *Tracker {
	t := &Tracker{
		tables:    tables,
		now:       time.Now,
		records:   make(map[string]*Record),
		modifiers: make(map[string]int),
	}
	t.started = t.now()
	return t
}

// SetGuild sets the guild used for alias resolution.
func (t *Tracker) SetGuild(g character.Guild) { t.guild = g }

// SetEchoGains turns recording of mindstate gains on or off.
func (t *Tracker) SetEchoGains(on bool) { t.echoGains = on }

// EchoGains reports whether gains are being recorded.
func (t *Tracker) EchoGains() bool { return t.echoGains }

// Tables returns the lookup tables the tracker was built with.
func (t *Tracker) Tables() *Tables { return t.tables }

// Resolve maps a reported skill name through the current guild's aliases.
func (t *Tracker) Resolve(name string) string {
	return t.tables.Alias(t.guild, name)
}

// Update records a skill report. The name is resolved through the guild
// aliases; a skill seen for the first time is created and appended to the
// tracked order; a name in no skillset is still tracked, with an empty
// Skillset. At or above CapRank the mindstate is forced to MaxMindstate.
//
// Precondition: rank >= 0; 0 <= mindstate <= MaxMindstate; 0 <= percent <= 100.
// Postcondition: the record reflects the report, or an error is returned and
// no state changed.
func (t *Tracker) Update(name string, rank, mindstate, percent int) error {
	if rank < 0 {
		return fmt.Errorf("%w: rank %d for %q", ErrOutOfRange, rank, name)
	}
	if mindstate < 0 || mindstate > MaxMindstate {
		return fmt.Errorf("%w: mindstate %d for %q", ErrOutOfRange, mindstate, name)
	}
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: percent %d for %q", ErrOutOfRange, percent, name)
	}
	if rank >= CapRank {
		mindstate = MaxMindstate
	}

	resolved := t.Resolve(name)
	rec, ok := t.records[resolved]
	if !ok {
		set, _ := t.tables.SkillsetOf(resolved)
		rec = &Record{Name: resolved, Skillset: set}
		t.records[resolved] = rec
		t.order = append(t.order, resolved)
	} else if t.echoGains && mindstate > rec.Mindstate {
		t.gains = append(t.gains, Gain{
			Skill:     resolved,
			Delta:     mindstate - rec.Mindstate,
			Mindstate: mindstate,
			At:        t.now(),
		})
	}

	rec.Rank = rank
	rec.Mindstate = mindstate
	rec.Percent = percent
	rec.Current = float64(rank) + float64(percent)/100
	if !ok {
		rec.Baseline = rec.Current
	}
	return nil
}

// ClearMindstate drops the mindstate of a tracked skill to zero. Skills at or
// above CapRank keep MaxMindstate.
func (t *Tracker) ClearMindstate(name string) {
	rec, ok := t.records[t.Resolve(name)]
	if !ok || rec.Rank >= CapRank {
		return
	}
	rec.Mindstate = 0
}

// SetModifier stores an additive rank modifier for a skill.
func (t *Tracker) SetModifier(name string, value int) {
	t.modifiers[t.Resolve(name)] = value
}

// ClearModifiers forgets every rank modifier.
func (t *Tracker) ClearModifiers() {
	t.modifiers = make(map[string]int)
}

// Modifier returns the rank modifier for a skill, or 0.
func (t *Tracker) Modifier(name string) int {
	return t.modifiers[t.Resolve(name)]
}

// Get returns a copy of the record for name.
func (t *Tracker) Get(name string) (Record, bool) {
	rec, ok := t.records[t.Resolve(name)]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Rank returns the rank of name, or 0 when untracked.
func (t *Tracker) Rank(name string) int {
	rec, _ := t.Get(name)
	return rec.Rank
}

// ModRank returns rank plus any active modifier.
func (t *Tracker) ModRank(name string) int {
	return t.Rank(name) + t.Modifier(name)
}

// Gained returns current minus baseline rounded to two decimal places, or 0
// when untracked.
func (t *Tracker) Gained(name string) float64 {
	rec, ok := t.Get(name)
	if !ok {
		return 0
	}
	return round2(rec.Current - rec.Baseline)
}

// Value returns field f of the named skill.
func (t *Tracker) Value(name string, f Field) (float64, error) {
	rec, ok := t.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSkill, name)
	}
	switch f {
	case FieldRank:
		return float64(rec.Rank), nil
	case FieldMindstate:
		return float64(rec.Mindstate), nil
	case FieldPercent:
		return float64(rec.Percent), nil
	case FieldCurrent:
		return rec.Current, nil
	case FieldBaseline:
		return rec.Baseline, nil
	case FieldGained:
		return round2(rec.Current - rec.Baseline), nil
	case FieldModRank:
		return float64(t.ModRank(name)), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownField, f)
}

// Records returns copies of every tracked record in first-seen order.
func (t *Tracker) Records() []Record {
	out := make([]Record, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, *t.records[name])
	}
	return out
}

// Gains returns a copy of the recorded gains, oldest first. A gain is
// recorded only while echo is on, only for a skill that was already tracked,
// and only when its mindstate rose: the first report of a skill sets its
// baseline, and a drop (the pool draining) is not a gain.
func (t *Tracker) Gains() []Gain {
	return append([]Gain(nil), t.gains...)
}

// Modifiers returns a copy of the rank modifiers.
func (t *Tracker) Modifiers() map[string]int {
	out := make(map[string]int, len(t.modifiers))
	for k, v := range t.modifiers {
		out[k] = v
	}
	return out
}

// SessionStart returns when the tracker was created or last reset.
func (t *Tracker) SessionStart() time.Time { return t.started }

// Reset makes every skill's current value its new baseline, clears recorded
// gains and restarts the session clock.
//
// Postcondition: Gained(name) == 0 for every tracked skill.
func (t *Tracker) Reset() {
	for _, rec := range t.records {
		rec.Baseline = rec.Current
	}
	t.gains = nil
	t.started = t.now()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
