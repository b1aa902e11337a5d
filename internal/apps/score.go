package apps

import (
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// Score rates how well two normalized names match, from 0 to 100.
//
//	equal strings          100
//	one contains the other floor(shorter/longer * 90)
//	otherwise              floor(sequence ratio * 80)
//
// Lengths are counted in runes.
func Score(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := la, lb
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return shorter * 90 / longer
	}

	m := difflib.NewMatcher(runeTokens(a), runeTokens(b))
	return int(m.Ratio() * 80)
}

func runeTokens(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
