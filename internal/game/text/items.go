package text

import (
	"regexp"
	"strings"
)

var (
	alsoSeePrefix  = regexp.MustCompile(`(?i)^\s*you also see\s*`)
	itemSeparator  = regexp.MustCompile(`\s*,\s*(?:and\s+)?|\s+and\s+|^and\s+`)
	leadingArticle = regexp.MustCompile(`(?i)^(?:a|an|some)\s+`)
)

// SplitItems splits a "You also see ..." style sentence into item phrases.
// Phrases are separated on commas and the word "and"; trailing punctuation
// and a leading article ("a", "an", "some") are trimmed from each phrase.
//
// Postcondition: no returned phrase is empty.
func SplitItems(sentence string) []string {
	s := alsoSeePrefix.ReplaceAllString(sentence, "")
	s = strings.TrimSpace(s)

	var out []string
	for _, part := range itemSeparator.Split(s, -1) {
		part = strings.TrimSpace(strings.TrimRight(part, ".,;:!? "))
		part = leadingArticle.ReplaceAllString(part, "")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
