// Package settings defines the persistent preference store the proxy reads
// user preferences from, such as whether skill gains are echoed.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// ErrNotFound is returned when a profile has no value for a key.
var ErrNotFound = errors.New("setting not found")

// Known preference keys.
const (
	// KeyEchoExp turns skill gain recording on ("true") or off ("false").
	KeyEchoExp = "echo_exp"
)

// Store persists string preferences per profile.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, profile, key string) (string, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, profile, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, profile, key string) error
	// List returns every key and value stored for profile.
	List(ctx context.Context, profile string) (map[string]string, error)
	// Close releases the store's resources.
	Close() error
}

// Bool reads key as a boolean, returning def when it is unset.
//
// Postcondition: a stored value that is not a boolean is an error.
func Bool(ctx context.Context, s Store, profile, key string, def bool) (bool, error) {
	raw, err := s.Get(ctx, profile, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("setting %s/%s: %w", profile, key, err)
	}
	return v, nil
}

// SetBool stores a boolean under key.
func SetBool(ctx context.Context, s Store, profile, key string, v bool) error {
	return s.Set(ctx, profile, key, strconv.FormatBool(v))
}

// Memory is a Store that keeps preferences in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, profile, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[profile][key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, profile, key)
	}
	return v, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, profile, key, value string) error {
	if profile == "" || key == "" {
		return errors.New("settings: profile and key must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[profile] == nil {
		m.values[profile] = make(map[string]string)
	}
	m.values[profile][key] = value
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, profile, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values[profile], key)
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, profile string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values[profile]))
	for k, v := range m.values[profile] {
		out[k] = v
	}
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Keys returns the keys of values in sorted order.
func Keys(values map[string]string) []string {
	out := make([]string, 0, len(values))
	for k := range values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
