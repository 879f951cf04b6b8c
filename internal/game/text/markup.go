// Package text provides the pure, stateless text passes that turn raw game
// output into structured name lists: markup stripping, room sentence
// splitting, NPC/PC extraction, ordinal disambiguation and currency tiers.
package text

import (
	"regexp"
	"strings"
)

// Markup tokens the game wraps around creatures in room descriptions.
const (
	BoldOpen  = "<pushBold/>"
	BoldClose = "<popBold/>"
)

var markupTag = regexp.MustCompile(`<[^<>]*>`)

// StripMarkup removes every <...> tag from s, leaving only the visible text.
//
// Postcondition: the result contains no '<' ... '>' tag sequences.
func StripMarkup(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	if !strings.Contains(s, "\033[") {
		return s
	}
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// Clean strips ANSI sequences and markup tags and collapses surrounding
// whitespace.
func Clean(s string) string {
	return strings.TrimSpace(StripMarkup(StripANSI(s)))
}
