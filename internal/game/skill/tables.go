// Package skill tracks per-skill rank and mindstate progress for the current
// character, together with the static tables that classify skills.
package skill

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/mudproxy/internal/game/character"
)

//go:embed skills.yaml
var defaultTablesYAML []byte

// Skillset is the category a skill belongs to.
type Skillset string

// The five skillsets.
const (
	Armor    Skillset = "Armor"
	Weapon   Skillset = "Weapon"
	Magic    Skillset = "Magic"
	Survival Skillset = "Survival"
	Lore     Skillset = "Lore"
)

// Skillsets lists every skillset in display order.
var Skillsets = []Skillset{Armor, Weapon, Magic, Survival, Lore}

// MaxMindstate is the highest mindstate; it is also the fixed mindstate of a
// skill at or above CapRank.
const MaxMindstate = 34

// CapRank is the rank at which mindstate is pinned to MaxMindstate.
const CapRank = 1750

// ErrUnknownLearningRate is returned when a learning-rate name is not in the table.
var ErrUnknownLearningRate = errors.New("unknown learning rate")

type tablesFile struct {
	Skillsets     map[string][]string          `yaml:"skillsets"`
	GuildAliases  map[string]map[string]string `yaml:"guild_aliases"`
	LearningRates []string                     `yaml:"learning_rates"`
}

// Tables holds the static skill lookup data. A Tables value is immutable
// after LoadTables returns.
type Tables struct {
	skillset      map[string]Skillset
	bySkillset    map[Skillset][]string
	aliases       map[character.Guild]map[string]string
	learningRates []string
}

// LoadTables decodes and validates skill tables from YAML.
//
// Postcondition: every skill belongs to exactly one known skillset, every
// alias target is a known skill, and there are MaxMindstate+1 learning rates;
// otherwise a non-nil error is returned.
func LoadTables(data []byte) (*Tables, error) {
	var f tablesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing skill tables: %w", err)
	}

	t := &Tables{
		skillset:   make(map[string]Skillset),
		bySkillset: make(map[Skillset][]string),
		aliases:    make(map[character.Guild]map[string]string),
	}

	known := make(map[Skillset]bool, len(Skillsets))
	for _, s := range Skillsets {
		known[s] = true
	}
	for name, skills := range f.Skillsets {
		set := Skillset(name)
		if !known[set] {
			return nil, fmt.Errorf("unknown skillset %q", name)
		}
		for _, s := range skills {
			if prev, dup := t.skillset[s]; dup {
				return nil, fmt.Errorf("skill %q listed in both %s and %s", s, prev, set)
			}
			t.skillset[s] = set
		}
		t.bySkillset[set] = append([]string(nil), skills...)
	}

	for guildName, aliases := range f.GuildAliases {
		g, err := character.ParseGuild(guildName)
		if err != nil {
			return nil, fmt.Errorf("guild aliases: %w", err)
		}
		m := make(map[string]string, len(aliases))
		for from, to := range aliases {
			if _, ok := t.skillset[to]; !ok {
				return nil, fmt.Errorf("guild %s alias %q targets unknown skill %q", g, from, to)
			}
			m[from] = to
		}
		t.aliases[g] = m
	}

	if len(f.LearningRates) != MaxMindstate+1 {
		return nil, fmt.Errorf("expected %d learning rates, got %d", MaxMindstate+1, len(f.LearningRates))
	}
	t.learningRates = append([]string(nil), f.LearningRates...)
	return t, nil
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// DefaultTables returns the tables embedded in the binary.
//
// Postcondition: Returns non-nil Tables; panics if the embedded data is invalid.
func DefaultTables() *Tables {
	defaultOnce.Do(func() {
		t, err := LoadTables(defaultTablesYAML)
		if err != nil {
			panic(fmt.Sprintf("loading embedded skill tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// SkillsetOf returns the skillset of a canonical skill name.
func (t *Tables) SkillsetOf(name string) (Skillset, bool) {
	s, ok := t.skillset[name]
	return s, ok
}

// SkillsIn returns the skills of a skillset in display order.
func (t *Tables) SkillsIn(set Skillset) []string {
	return append([]string(nil), t.bySkillset[set]...)
}

// Alias resolves name to the label guild reports it under, falling back to
// name itself.
func (t *Tables) Alias(guild character.Guild, name string) string {
	if to, ok := t.aliases[guild][name]; ok {
		return to
	}
	return name
}

// LearningRate returns the mindstate index of a learning-rate name.
func (t *Tables) LearningRate(name string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, r := range t.learningRates {
		if r == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLearningRate, name)
}

// LearningRateName returns the name of mindstate, or "" when out of range.
func (t *Tables) LearningRateName(mindstate int) string {
	if mindstate < 0 || mindstate >= len(t.learningRates) {
		return ""
	}
	return t.learningRates[mindstate]
}
