// Package ability tracks the spells, abilities and feats the current
// character knows, as reported by listing verbs.
package ability

import "sort"

// Layout is the spellbook output format the game uses for SPELLS.
type Layout int

const (
	LayoutUnset Layout = iota
	LayoutColumn
	LayoutNonColumn
)

func (l Layout) String() string {
	switch l {
	case LayoutColumn:
		return "column"
	case LayoutNonColumn:
		return "non-column"
	}
	return "unset"
}

// Capture identifies one listing window.
type Capture int

const (
	CaptureSpells Capture = iota
	CaptureBarbarian
	CaptureKhri
	numCaptures
)

func (c Capture) String() string {
	switch c {
	case CaptureSpells:
		return "spells"
	case CaptureBarbarian:
		return "barbarian"
	case CaptureKhri:
		return "khri"
	}
	return "unknown"
}

// Knowledge holds the known spell and feat sets together with the capture
// flags of the listing windows that fill them.
//
// Knowledge is not safe for concurrent use; the owning session serialises access.
type Knowledge struct {
	spells    map[string]struct{}
	feats     map[string]struct{}
	layout    Layout
	capturing [numCaptures]bool
}

// New creates an empty Knowledge.
func New() *Knowledge {
	return &Knowledge{
		spells: make(map[string]struct{}),
		feats:  make(map[string]struct{}),
	}
}

// Start opens listing window c. Both sets are cleared when the window moves
// from idle to capturing; a start seen while already capturing keeps what
// was collected, as the barbarian and khri listings print one start line
// per category.
//
// Postcondition: Capturing(c) is true.
func (k *Knowledge) Start(c Capture) {
	if k.capturing[c] {
		return
	}
	k.spells = make(map[string]struct{})
	k.feats = make(map[string]struct{})
	k.capturing[c] = true
}

// Restart opens listing window c with both sets cleared, even when the
// window is already open. Listings with a single header use it so that a
// window left open by an unrecognised end line cannot leak into the next
// listing.
//
// Postcondition: Capturing(c) is true and no spell or feat is known.
func (k *Knowledge) Restart(c Capture) {
	k.capturing[c] = false
	k.Start(c)
}

// Stop closes listing window c.
func (k *Knowledge) Stop(c Capture) { k.capturing[c] = false }

// StopAll closes every listing window.
func (k *Knowledge) StopAll() {
	for i := range k.capturing {
		k.capturing[i] = false
	}
}

// Capturing reports whether window c is open.
func (k *Knowledge) Capturing(c Capture) bool { return k.capturing[c] }

// SetLayout records the spellbook format.
func (k *Knowledge) SetLayout(l Layout) { k.layout = l }

// Layout returns the spellbook format.
func (k *Knowledge) Layout() Layout { return k.layout }

// AddSpell adds a known spell or ability; empty names are ignored.
func (k *Knowledge) AddSpell(name string) {
	if name != "" {
		k.spells[name] = struct{}{}
	}
}

// AddFeat adds a known feat or mastery; empty names are ignored.
func (k *Knowledge) AddFeat(name string) {
	if name != "" {
		k.feats[name] = struct{}{}
	}
}

// KnowsSpell reports whether name is a known spell.
func (k *Knowledge) KnowsSpell(name string) bool {
	_, ok := k.spells[name]
	return ok
}

// KnowsFeat reports whether name is a known feat.
func (k *Knowledge) KnowsFeat(name string) bool {
	_, ok := k.feats[name]
	return ok
}

// Spells returns the known spells sorted by name.
func (k *Knowledge) Spells() []string { return sortedKeys(k.spells) }

// Feats returns the known feats sorted by name.
func (k *Knowledge) Feats() []string { return sortedKeys(k.feats) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
