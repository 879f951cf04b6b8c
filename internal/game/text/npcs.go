package text

import (
	"regexp"
	"strings"
)

var (
	// npcToken matches one bold-wrapped creature descriptor together with an
	// optional death marker immediately following it.
	npcToken     = regexp.MustCompile(`<pushBold/>[^<>]*<popBold/>(?: which appears dead| \(dead\))?`)
	deadMarker   = regexp.MustCompile(`which appears dead|\(dead\)`)
	mountedRider = regexp.MustCompile(` with an? [\w\s]+ sitting astride its back`)
	npcAnd       = regexp.MustCompile(`\sand\s`)
	npcTrailing  = regexp.MustCompile(`(?:\sglowing)?\swith\s.*$`)
	npcNameWord  = regexp.MustCompile(`[A-Za-z'-]+$`)
)

// creatureCollapse maps descriptors containing a known multi-word creature
// name to that name, discarding decoration the game wraps around it.
var creatureCollapse = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`.*alfar warrior.*`), "alfar warrior"},
	{regexp.MustCompile(`.*sinewy leopard.*`), "sinewy leopard"},
	{regexp.MustCompile(`.*lesser naga.*`), "lesser naga"},
}

// boldObjects are bold-wrapped descriptors that are pets or furniture rather
// than creatures; they are reported as objects.
var boldObjects = map[string]string{
	BoldOpen + "a domesticated gelapod" + BoldClose: "domesticated gelapod",
}

// creatureDescriptors returns every bold-wrapped descriptor in a room-objects
// string, each with its death marker if any.
func creatureDescriptors(roomObjs string) []string {
	s := alsoSeePrefix.ReplaceAllString(roomObjs, "")
	s = mountedRider.ReplaceAllString(s, "")
	for token, replacement := range boldObjects {
		s = strings.ReplaceAll(s, token, replacement)
	}
	return npcToken.FindAllString(strings.TrimSpace(s), -1)
}

// NormalizeNPC reduces a single creature descriptor to its bare noun.
func NormalizeNPC(descriptor string) string {
	s := descriptor
	for _, c := range creatureCollapse {
		if c.pattern.MatchString(s) {
			s = c.name
			break
		}
	}
	s = strings.Replace(s, BoldOpen, "", 1)
	if idx := strings.Index(s, BoldClose); idx >= 0 {
		s = s[:idx]
	}
	if parts := npcAnd.Split(s, -1); len(parts) > 0 {
		s = parts[len(parts)-1]
	}
	s = npcTrailing.ReplaceAllString(s, "")
	return npcNameWord.FindString(strings.TrimSpace(s))
}

// NormalizeNPCs normalizes every descriptor and disambiguates repeated names
// with ordinal prefixes.
//
// Postcondition: len(result) <= len(descriptors); first occurrences are unprefixed.
func NormalizeNPCs(descriptors []string) []string {
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if n := NormalizeNPC(d); n != "" {
			names = append(names, n)
		}
	}
	return Disambiguate(names)
}

// FindNPCs returns the live creatures in a room-objects string, ordinal
// disambiguated ("goblin", "second goblin", ...).
func FindNPCs(roomObjs string) []string {
	var live []string
	for _, d := range creatureDescriptors(roomObjs) {
		if !deadMarker.MatchString(d) {
			live = append(live, d)
		}
	}
	return NormalizeNPCs(live)
}

// FindDeadNPCs returns the bare names of the dead creatures in a
// room-objects string.
func FindDeadNPCs(roomObjs string) []string {
	var dead []string
	for _, d := range creatureDescriptors(roomObjs) {
		if !deadMarker.MatchString(d) {
			continue
		}
		if n := NormalizeNPC(d); n != "" {
			dead = append(dead, n)
		}
	}
	return dead
}

// FindObjects returns the non-creature items in a room-objects string.
func FindObjects(roomObjs string) []string {
	s := alsoSeePrefix.ReplaceAllString(roomObjs, "")
	s = mountedRider.ReplaceAllString(s, "")
	for token, replacement := range boldObjects {
		s = strings.ReplaceAll(s, token, replacement)
	}
	s = npcToken.ReplaceAllString(s, "")
	return SplitItems(StripMarkup(s))
}
