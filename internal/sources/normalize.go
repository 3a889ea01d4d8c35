package sources

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var (
	arxivAbsPattern  = regexp.MustCompile(`arxiv\.org/abs/([^\s/?]+)`)
	arxivTagPattern  = regexp.MustCompile(`(?i)arxiv:([^\s]+)`)
	arxivBarePattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
)

// stripDOIPrefix removes any URL prefix from a DOI, leaving the bare
// "10.xxxx/yyyy" form.
func stripDOIPrefix(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{
		"https://doi.org/",
		"http://doi.org/",
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"doi:",
	} {
		if strings.HasPrefix(strings.ToLower(doi), prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}

// extractArxivID tries, in order, an arxiv.org/abs/ URL, an arXiv:
// tag, then a bare id matching \d{4}\.\d{4,5}(v\d+)?, against every
// candidate string. Returns "" if none match.
func extractArxivID(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if m := arxivAbsPattern.FindStringSubmatch(c); len(m) == 2 {
			return m[1]
		}
		if m := arxivTagPattern.FindStringSubmatch(c); len(m) == 2 {
			return m[1]
		}
		if arxivBarePattern.MatchString(strings.TrimSpace(c)) {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

// defaultTitle returns "Untitled" for an empty title, matching §4.2's
// normalization rule.
func defaultTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	return title
}

// stableJSONArray serializes a string slice into a sorted, stable
// JSON array, or returns nil if the slice is empty.
func stableJSONArray(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	raw, err := json.Marshal(sorted)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// reconstructAbstract rebuilds an OpenAlex inverted-index abstract
// ({word: [positions...]}) into a single string, tokens ordered by
// ascending position. Each word's position list is decoded
// independently so one malformed entry (non-array, non-numeric or
// negative positions) is dropped without failing the whole abstract.
func reconstructAbstract(invertedIndex map[string]json.RawMessage) *string {
	if len(invertedIndex) == 0 {
		return nil
	}

	type placement struct {
		pos  int
		word string
	}

	var placements []placement
	for word, raw := range invertedIndex {
		var positions []json.Number
		if err := json.Unmarshal(raw, &positions); err != nil {
			continue
		}
		for _, n := range positions {
			pos, err := n.Int64()
			if err != nil || pos < 0 {
				continue
			}
			placements = append(placements, placement{pos: int(pos), word: word})
		}
	}

	if len(placements) == 0 {
		return nil
	}

	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].pos < placements[j].pos
	})

	tokens := make([]string, len(placements))
	for i, p := range placements {
		tokens[i] = p.word
	}

	joined := strings.Join(tokens, " ")
	return &joined
}
