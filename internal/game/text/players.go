package text

import (
	"regexp"
	"strings"
)

var (
	alsoHerePrefix = regexp.MustCompile(`(?i)^\s*also here:\s*`)
	statusClause   = regexp.MustCompile(`\s+(?:who(?:se body)?\s+)?(?:is|has|appears|glows)\s.*$`)
	parenthetical  = regexp.MustCompile(`\s*\(.*$`)
	trailingWord   = regexp.MustCompile(`[\w'-]+$`)
)

// playerFragments normalizes the final " and " of an "Also here: ..." list
// into a comma and splits the list into one fragment per player.
func playerFragments(roomPlayers string) []string {
	s := Clean(roomPlayers)
	s = alsoHerePrefix.ReplaceAllString(s, "")
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return nil
	}
	if idx := strings.LastIndex(s, " and "); idx >= 0 {
		s = s[:idx] + ", " + s[idx+len(" and "):]
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// playerName reduces one fragment to the bare player name: everything from
// the first status clause or parenthetical is dropped and the last word kept.
func playerName(fragment string) string {
	s := statusClause.ReplaceAllString(fragment, "")
	s = parenthetical.ReplaceAllString(s, "")
	return trailingWord.FindString(strings.TrimSpace(s))
}

func collectPlayers(roomPlayers string, keep func(fragment string) bool) []string {
	var names []string
	for _, f := range playerFragments(roomPlayers) {
		if keep != nil && !keep(f) {
			continue
		}
		if name := playerName(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// FindPCs extracts player names from an "Also here: ..." sentence.
func FindPCs(roomPlayers string) []string {
	return collectPlayers(roomPlayers, nil)
}

// FindPronePCs returns the players described as lying down.
func FindPronePCs(roomPlayers string) []string {
	return collectPlayers(roomPlayers, func(f string) bool {
		return strings.Contains(strings.ToLower(f), "lying down")
	})
}

// FindSittingPCs returns the players described as sitting.
func FindSittingPCs(roomPlayers string) []string {
	return collectPlayers(roomPlayers, func(f string) bool {
		return strings.Contains(strings.ToLower(f), "sitting")
	})
}
