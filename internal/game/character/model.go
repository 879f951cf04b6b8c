// Package character defines the scalar character attributes recognized in
// game output.
package character

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownStat is returned when an ability score name is not recognized.
var ErrUnknownStat = errors.New("unknown stat")

// Stat identifies one of the nine ability scores.
type Stat int

const (
	Strength Stat = iota
	Agility
	Discipline
	Intelligence
	Reflex
	Charisma
	Wisdom
	Stamina
	Concentration
	numStats
)

var statNames = [numStats]string{
	"Strength", "Agility", "Discipline", "Intelligence", "Reflex",
	"Charisma", "Wisdom", "Stamina", "Concentration",
}

// String returns the display name of the stat.
func (s Stat) String() string {
	if s < 0 || s >= numStats {
		return fmt.Sprintf("Stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat resolves a stat name, ignoring case.
func ParseStat(name string) (Stat, error) {
	for i, n := range statNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// Stats returns all nine stats in display order.
func Stats() []Stat {
	out := make([]Stat, numStats)
	for i := range out {
		out[i] = Stat(i)
	}
	return out
}

// AbilityScores holds the nine ability score values.
type AbilityScores [numStats]int

// Get returns the score for s, or 0 for an invalid stat.
func (a AbilityScores) Get(s Stat) int {
	if s < 0 || s >= numStats {
		return 0
	}
	return a[s]
}

// RestedExp holds the rested-experience timers reported by EXP.
type RestedExp struct {
	Stored          time.Duration `yaml:"stored" json:"stored"`
	UsableThisCycle time.Duration `yaml:"usable_this_cycle" json:"usable_this_cycle"`
	CycleRefresh    time.Duration `yaml:"cycle_refresh" json:"cycle_refresh"`
}

// Character holds every scalar attribute the parser recognizes. Fields are
// updated one at a time as lines arrive; nothing replaces the whole value.
type Character struct {
	Name    string `yaml:"name" json:"name"`
	Account string `yaml:"account" json:"account"`
	Race    string `yaml:"race" json:"race"`
	Guild   Guild  `yaml:"guild" json:"guild"`
	Gender  string `yaml:"gender" json:"gender"`
	Age     int    `yaml:"age" json:"age"`
	Circle  int    `yaml:"circle" json:"circle"`

	Abilities        AbilityScores `yaml:"abilities" json:"abilities"`
	MaxConcentration int           `yaml:"max_concentration" json:"max_concentration"`

	Favors      int    `yaml:"favors" json:"favors"`
	TDPs        int    `yaml:"tdps" json:"tdps"`
	Luck        int    `yaml:"luck" json:"luck"`
	Encumbrance string `yaml:"encumbrance" json:"encumbrance"`
	// Balance is an index into BalanceDescriptors.
	Balance int `yaml:"balance" json:"balance"`

	LastLogoff time.Time `yaml:"last_logoff" json:"last_logoff"`
	Rested     RestedExp `yaml:"rested" json:"rested"`
}

// New returns a Character with every field at its starting value.
//
// Postcondition: Balance is DefaultBalance.
func New() *Character {
	return &Character{Balance: DefaultBalance}
}

// SetBalance stores the index of descriptor.
//
// Postcondition: Balance is unchanged when an error is returned.
func (c *Character) SetBalance(descriptor string) error {
	idx, err := ParseBalance(descriptor)
	if err != nil {
		return err
	}
	c.Balance = idx
	return nil
}

// BalanceName returns the descriptor for the current balance index.
func (c Character) BalanceName() string {
	return BalanceName(c.Balance)
}
