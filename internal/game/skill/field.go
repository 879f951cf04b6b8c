package skill

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a field name is not recognized.
var ErrUnknownField = errors.New("unknown skill field")

// Field names a numeric attribute of a tracked skill.
type Field int

const (
	FieldRank Field = iota
	FieldMindstate
	FieldPercent
	FieldCurrent
	FieldBaseline
	FieldGained
	FieldModRank
)

var fieldNames = [...]string{
	FieldRank:      "rank",
	FieldMindstate: "mindstate",
	FieldPercent:   "percent",
	FieldCurrent:   "current",
	FieldBaseline:  "baseline",
	FieldGained:    "gained",
	FieldModRank:   "modrank",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField resolves a field name such as "rank" or "mindstate".
func ParseField(name string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range fieldNames {
		if n == key {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
