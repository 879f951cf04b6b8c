package parser

import (
	"fmt"
	"strings"
)

// Notifier delivers a short user-facing notice. Delivery is best effort.
type Notifier interface {
	Notify(message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string) error

// Notify calls f.
func (f NotifierFunc) Notify(message string) error { return f(message) }

type discardNotifier struct{}

func (discardNotifier) Notify(string) error { return nil }

// CapturePolicy decides what happens to armed listing windows when a line
// fails to parse.
type CapturePolicy int

const (
	// KeepArmed leaves every capture window as it was.
	KeepArmed CapturePolicy = iota
	// ResetOnError closes every capture window.
	ResetOnError
)

func (c CapturePolicy) String() string {
	if c == ResetOnError {
		return "reset_on_error"
	}
	return "keep_armed"
}

// ParseCapturePolicy resolves "keep_armed" or "reset_on_error"; "" means
// KeepArmed.
func ParseCapturePolicy(s string) (CapturePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep_armed":
		return KeepArmed, nil
	case "reset_on_error":
		return ResetOnError, nil
	}
	return KeepArmed, fmt.Errorf("unknown capture policy %q", s)
}
