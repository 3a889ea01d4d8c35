// Package text implements the deterministic tokenizer and TF-IDF
// corpus the build orchestrator uses to weight paper content (§4.4,
// §4.5). Every implementation detail here is chosen for byte-identical
// output across runs: no Unicode-aware normalization, no stemming, no
// third-party NLP library, since any of those would reintroduce the
// non-determinism the spec's tokenizer contract explicitly rules out.
package text

import "strings"

// Tokenize lowercases input, collapses every character outside
// [a-z0-9 \-] to a space, splits on whitespace, trims leading/trailing
// hyphens from each piece, then drops anything one character long, in
// the stopword set, or composed entirely of digits (§4.4).
func Tokenize(input string) []string {
	lower := strings.ToLower(input)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f == "" {
			continue
		}
		if len(f) == 1 {
			continue
		}
		if stopwords[f] {
			continue
		}
		if isAllDigits(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
		return true
	default:
		return false
	}
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
