package character

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBalance is returned when a balance descriptor is not in the list.
var ErrUnknownBalance = errors.New("unknown balance descriptor")

// BalanceDescriptors lists the balance states the game reports, worst first.
// A character's balance is stored as an index into this list.
var BalanceDescriptors = []string{
	"completely",
	"hopelessly",
	"extremely",
	"very badly",
	"badly",
	"somewhat off",
	"off",
	"slightly off",
	"solidly",
	"nimbly",
	"adeptly",
	"incredibly",
}

// DefaultBalance is the index assumed before any balance line is seen.
const DefaultBalance = 8

// ParseBalance returns the index of descriptor in BalanceDescriptors. Only
// exact (case-insensitive) descriptors match.
//
// Postcondition: 0 <= index < len(BalanceDescriptors), or ErrUnknownBalance.
func ParseBalance(descriptor string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(descriptor))
	for i, d := range BalanceDescriptors {
		if d == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBalance, descriptor)
}

// BalanceName returns the descriptor for index, or "" when out of range.
func BalanceName(index int) string {
	if index < 0 || index >= len(BalanceDescriptors) {
		return ""
	}
	return BalanceDescriptors[index]
}
