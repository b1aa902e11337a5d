package apps

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalizer canonicalizes application names before comparison: lowercase,
// decorative punctuation removed, one pass of suffix and prefix stripping,
// then synonym substitution.
type Normalizer struct {
	punct    map[rune]struct{}
	suffixes []string
	prefixes []string
	synonyms map[string]string
}

// NewNormalizer builds a normalizer from catalog vocabulary.
func NewNormalizer(spec NormalizerSpec) *Normalizer {
	n := &Normalizer{
		punct:    make(map[rune]struct{}),
		synonyms: make(map[string]string, len(spec.Synonyms)),
	}
	for _, r := range spec.Punctuation {
		n.punct[r] = struct{}{}
	}
	n.suffixes = lowerAll(spec.Suffixes)
	n.prefixes = lowerAll(spec.Prefixes)
	for from, to := range spec.Synonyms {
		n.synonyms[strings.ToLower(strings.TrimSpace(from))] = strings.ToLower(strings.TrimSpace(to))
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	// Longest first so 应用程序 wins over 程序.
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}

// Clean removes decorative punctuation and surrounding whitespace, keeping case.
func (n *Normalizer) Clean(raw string) string {
	if n == nil {
		return strings.TrimSpace(raw)
	}
	cleaned := strings.Map(func(r rune) rune {
		if _, ok := n.punct[r]; ok {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}

// Normalize returns the canonical form of raw. It is deterministic and
// idempotent for names that do not end in a second strippable affix.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(n.Clean(raw))
	if n == nil {
		return s
	}

	for _, suf := range n.suffixes {
		if rest, ok := trimAffix(s, suf, false); ok {
			s = rest
		}
	}
	for _, pre := range n.prefixes {
		if rest, ok := trimAffix(s, pre, true); ok {
			s = rest
		}
	}

	if syn, ok := n.synonyms[s]; ok {
		s = syn
	}
	return s
}

// trimAffix strips affix from one end of s. Latin affixes only match on a
// word boundary so "whatsapp" keeps its "app". The result is never empty.
func trimAffix(s, affix string, prefix bool) (string, bool) {
	var rest string
	if prefix {
		if !strings.HasPrefix(s, affix) {
			return s, false
		}
		rest = s[len(affix):]
		if isLatinWord(affix) && rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) {
				return s, false
			}
		}
	} else {
		if !strings.HasSuffix(s, affix) {
			return s, false
		}
		rest = s[:len(s)-len(affix)]
		if isLatinWord(affix) && rest != "" {
			r, _ := utf8.DecodeLastRuneInString(rest)
			if !unicode.IsSpace(r) {
				return s, false
			}
		}
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return s, false
	}
	return rest, true
}

func isLatinWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r < utf8.RuneSelf && unicode.IsLetter(r)
}
