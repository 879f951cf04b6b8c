// Package flags implements the condition registry: named boolean flags that
// flip to true when any of their registered patterns matches a game line.
package flags

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Flag is one named condition and the patterns that set it.
type Flag struct {
	Key      string
	Patterns []*regexp.Regexp
	Value    bool
	// Match holds the submatches of the most recent pattern hit; element 0 is
	// the whole match.
	Match []string
}

// Registry holds every registered Flag keyed by name.
//
// Registry is safe for concurrent use: scripts register and read flags from
// other goroutines while the parser evaluates lines.
type Registry struct {
	mu    sync.RWMutex
	flags map[string]*Flag
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{flags: make(map[string]*Flag)}
}

// Register compiles each pattern case-insensitively and stores them under key,
// replacing any patterns already registered for it. The value starts false.
//
// Precondition: key must not be empty.
// Postcondition: Get(key) is (false, true), or an error is returned and the
// registry is unchanged.
func (r *Registry) Register(key string, patterns ...string) error {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return fmt.Errorf("compiling pattern %q for flag %q: %w", p, key, err)
		}
		compiled = append(compiled, re)
	}
	return r.RegisterRegexp(key, compiled...)
}

// RegisterRegexp stores precompiled patterns under key as given.
//
// Precondition: key must not be empty.
func (r *Registry) RegisterRegexp(key string, patterns ...*regexp.Regexp) error {
	if key == "" {
		return fmt.Errorf("flag key must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flags[key]; !ok {
		r.order = append(r.order, key)
	}
	r.flags[key] = &Flag{Key: key, Patterns: patterns}
	return nil
}

// Evaluate tests line against every flag. For each flag the patterns are tried
// in registration order and the first match sets the flag and stops; flags
// that do not match keep their value.
//
// Postcondition: every flag with a matching pattern is true.
func (r *Registry) Evaluate(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range r.order {
		f := r.flags[key]
		for _, re := range f.Patterns {
			if m := re.FindStringSubmatch(line); m != nil {
				f.Value = true
				f.Match = m
				break
			}
		}
	}
}

// Get returns the value of key and whether it is registered.
func (r *Registry) Get(key string) (bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flags[key]
	if !ok {
		return false, false
	}
	return f.Value, true
}

// Set forces the value of a registered flag.
//
// Postcondition: returns false if key is not registered.
func (r *Registry) Set(key string, value bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flags[key]
	if !ok {
		return false
	}
	f.Value = value
	if !value {
		f.Match = nil
	}
	return true
}

// Reset sets key back to false and forgets its last match.
func (r *Registry) Reset(key string) bool {
	return r.Set(key, false)
}

// Unregister removes key together with its patterns.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.flags[key]; !ok {
		return
	}
	delete(r.flags, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Match returns a copy of the submatches recorded by the most recent hit on
// key, or nil if the flag is unset or unknown.
func (r *Registry) Match(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.flags[key]
	if !ok || f.Match == nil {
		return nil
	}
	out := make([]string, len(f.Match))
	copy(out, f.Match)
	return out
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// Values returns a copy of every flag value keyed by name.
func (r *Registry) Values() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.flags))
	for k, f := range r.flags {
		out[k] = f.Value
	}
	return out
}
