package text

import (
	"math"
	"sort"
)

// Document is one unit of text fed into BuildCorpus, keyed by the
// paper's natural-key source id (§4.5: "vector map (source_id →
// (term → weight))").
type Document struct {
	SourceID string
	Text     string
}

// Corpus holds per-document TF-IDF vectors, the document-frequency
// table, and the document count used to compute idf (§4.5).
type Corpus struct {
	Vectors map[string]map[string]float64
	DF      map[string]int
	N       int
}

// BuildCorpus computes augmented-frequency TF weighted by idf over
// docs, in the order given — callers must pass docs in a stable order
// (e.g. store.ListPapers, which orders by id) for the corpus-
// determinism contract in §8 to hold. Documents whose token list is
// empty are skipped entirely, matching §4.5 step 2.
func BuildCorpus(docs []Document) *Corpus {
	type tfEntry struct {
		sourceID string
		tf       map[string]float64
	}

	df := make(map[string]int)
	entries := make([]tfEntry, 0, len(docs))

	for _, d := range docs {
		tokens := Tokenize(d.Text)
		if len(tokens) == 0 {
			continue
		}

		counts := make(map[string]int)
		for _, t := range tokens {
			counts[t]++
		}
		maxTF := 0
		for _, c := range counts {
			if c > maxTF {
				maxTF = c
			}
		}

		tf := make(map[string]float64, len(counts))
		for term, c := range counts {
			tf[term] = float64(c) / float64(maxTF)
			df[term]++
		}

		entries = append(entries, tfEntry{sourceID: d.SourceID, tf: tf})
	}

	n := len(entries)
	vectors := make(map[string]map[string]float64, n)
	for _, e := range entries {
		vec := make(map[string]float64, len(e.tf))
		for term, weight := range e.tf {
			idf := math.Log(float64(n) / float64(df[term]))
			vec[term] = weight * idf
		}
		vectors[e.sourceID] = vec
	}

	return &Corpus{Vectors: vectors, DF: df, N: n}
}

// TopTerms sums the TF-IDF vectors of docIDs and returns the k terms
// with the greatest sum. Terms whose sum is zero are left out, so a
// one-document corpus (every idf is ln 1 = 0) yields no terms. Ties
// are broken alphabetically, a deterministic stand-in for "stable
// insertion order" since Go map iteration order is not itself stable
// (§4.5).
func (c *Corpus) TopTerms(docIDs []string, k int) []string {
	sums := make(map[string]float64)
	for _, id := range docIDs {
		for term, w := range c.Vectors[id] {
			sums[term] += w
		}
	}

	terms := make([]string, 0, len(sums))
	for term, sum := range sums {
		if sum > 0 {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	sort.SliceStable(terms, func(i, j int) bool {
		return sums[terms[i]] > sums[terms[j]]
	})

	if k >= 0 && len(terms) > k {
		terms = terms[:k]
	}
	return terms
}

// Relevance sums the query-token weights from docID's vector and
// returns min(1, sum/|queryTokens|); 0 if queryTokens is empty or
// docID is unknown to the corpus (§4.5).
func (c *Corpus) Relevance(docID string, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	vec, ok := c.Vectors[docID]
	if !ok {
		return 0
	}

	sum := 0.0
	for _, t := range queryTokens {
		sum += vec[t]
	}

	rel := sum / float64(len(queryTokens))
	if rel > 1 {
		rel = 1
	}
	return rel
}
