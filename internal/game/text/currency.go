package text

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDenomination is returned when a coin name matches no tier.
var ErrUnknownDenomination = errors.New("unknown denomination")

// Denomination is one coin tier and its value in base units (copper).
type Denomination struct {
	Name string
	Base int
}

// Denominations lists every coin tier, largest first.
var Denominations = []Denomination{
	{Name: "platinum", Base: 10000},
	{Name: "gold", Base: 1000},
	{Name: "silver", Base: 100},
	{Name: "bronze", Base: 10},
	{Name: "copper", Base: 1},
}

// LookupDenomination resolves a coin name, its plural, or a prefix of the
// name ("plat", "g") to its tier. Longer words that merely start with a coin
// name ("goldfish") do not match.
//
// Postcondition: Returns the tier, or ErrUnknownDenomination.
func LookupDenomination(name string) (Denomination, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Denomination{}, fmt.Errorf("%w: empty name", ErrUnknownDenomination)
	}
	for _, d := range Denominations {
		if strings.HasPrefix(d.Name, key) || key == d.Name+"s" {
			return d, nil
		}
	}
	return Denomination{}, fmt.Errorf("%w: %q", ErrUnknownDenomination, name)
}

// ToBase converts an amount of the named denomination to base units.
//
// Precondition: amount >= 0.
// Postcondition: Returns amount * tier value, or ErrUnknownDenomination.
func ToBase(amount int, denomination string) (int, error) {
	d, err := LookupDenomination(denomination)
	if err != nil {
		return 0, err
	}
	return amount * d.Base, nil
}

// DecomposeBase splits a base-unit total into per-tier amounts, in the order
// of Denominations.
//
// Precondition: total >= 0.
// Postcondition: sum(amounts[i] * Denominations[i].Base) == total.
func DecomposeBase(total int) []int {
	amounts := make([]int, len(Denominations))
	remainder := total
	for i, d := range Denominations {
		amounts[i] = remainder / d.Base
		remainder %= d.Base
	}
	return amounts
}

// FormatBase renders a base-unit total as "<amount> <denomination>" parts,
// largest tier first, joined with ", ". Zero-amount tiers are omitted, so a
// zero total renders as the empty string.
func FormatBase(total int) string {
	var parts []string
	for i, amount := range DecomposeBase(total) {
		if amount > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", amount, Denominations[i].Name))
		}
	}
	return strings.Join(parts, ", ")
}
