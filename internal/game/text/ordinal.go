package text

import "fmt"

// Ordinals are the English ordinal words for one through twenty, indexed
// from zero ("first").
var Ordinals = []string{
	"first", "second", "third", "fourth", "fifth",
	"sixth", "seventh", "eighth", "ninth", "tenth",
	"eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth",
	"sixteenth", "seventeenth", "eighteenth", "nineteenth", "twentieth",
}

var (
	tensCardinal = []string{2: "twenty", 3: "thirty", 4: "forty", 5: "fifty", 6: "sixty", 7: "seventy", 8: "eighty", 9: "ninety"}
	tensOrdinal  = []string{2: "twentieth", 3: "thirtieth", 4: "fortieth", 5: "fiftieth", 6: "sixtieth", 7: "seventieth", 8: "eightieth", 9: "ninetieth"}
)

// OrdinalWord returns the ordinal for n >= 1: words up to ninety-ninth
// ("forty-second"), then digits with an English suffix ("101st").
//
// Precondition: n >= 1.
func OrdinalWord(n int) string {
	switch {
	case n <= len(Ordinals):
		return Ordinals[n-1]
	case n < 100 && n%10 == 0:
		return tensOrdinal[n/10]
	case n < 100:
		return tensCardinal[n/10] + "-" + Ordinals[n%10-1]
	}
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Disambiguate prefixes the 2nd, 3rd, ... occurrence of each repeated name
// with its ordinal word, leaving first occurrences unprefixed.
//
// Postcondition: len(result) == len(names) and result preserves input order.
// Entries are unique as long as no input name already starts with an ordinal.
func Disambiguate(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := seen[name] + 1
		seen[name] = n
		if n == 1 {
			out[i] = name
			continue
		}
		out[i] = OrdinalWord(n) + " " + name
	}
	return out
}
