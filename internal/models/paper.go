// Package models holds the plain records that move between the
// source adapters, the store, and the graph/scoring components. None
// of them carry query-building logic of their own — that lives in
// internal/store, matching the teacher's split between models and
// repository.
package models

// Paper is the canonical record for one academic paper (§3).
//
// Identity is the pair (Source, SourceID); ID is assigned by the
// store on first insert and is never recomputed from the natural key
// again. DOI and ArxivID are supplementary identifiers, not part of
// the uniqueness constraint.
type Paper struct {
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	SourceID string `json:"source_id"`

	DOI     *string `json:"doi,omitempty"`
	ArxivID *string `json:"arxiv_id,omitempty"`

	Title         string  `json:"title"`
	Abstract      *string `json:"abstract,omitempty"`
	Year          *int    `json:"year,omitempty"`
	Venue         *string `json:"venue,omitempty"`
	URL           *string `json:"url,omitempty"`
	CitationCount int     `json:"citation_count"`

	// InfluenceScore holds the normalized PageRank value written by
	// the build orchestrator's algorithms stage (§4.8/§4.9); it is
	// never the composite score, which is reporting-only.
	InfluenceScore float64 `json:"influence_score"`

	// KeywordsJSON/ConceptsJSON are stable JSON-encoded blobs as
	// produced by a source adapter's normalization step (§4.2); nil
	// when the source supplied nothing structured.
	KeywordsJSON *string `json:"keywords_json,omitempty"`
	ConceptsJSON *string `json:"concepts_json,omitempty"`
}

// NaturalKey returns the (source, source_id) pair that uniquely
// identifies this paper.
func (p *Paper) NaturalKey() (string, string) {
	return p.Source, p.SourceID
}

// Merge applies the field-wise upsert rule from §3 to an existing
// paper using data freshly observed from a source: title is replaced,
// other nullable fields are coalesced (existing wins when the new
// value is nil), and citation count takes the max of the two.
func (p *Paper) Merge(fresh *Paper) {
	p.Title = fresh.Title

	if fresh.DOI != nil {
		p.DOI = fresh.DOI
	}
	if fresh.ArxivID != nil {
		p.ArxivID = fresh.ArxivID
	}
	if fresh.Abstract != nil {
		p.Abstract = fresh.Abstract
	}
	if fresh.Year != nil {
		p.Year = fresh.Year
	}
	if fresh.Venue != nil {
		p.Venue = fresh.Venue
	}
	if fresh.URL != nil {
		p.URL = fresh.URL
	}
	if fresh.KeywordsJSON != nil {
		p.KeywordsJSON = fresh.KeywordsJSON
	}
	if fresh.ConceptsJSON != nil {
		p.ConceptsJSON = fresh.ConceptsJSON
	}

	if fresh.CitationCount > p.CitationCount {
		p.CitationCount = fresh.CitationCount
	}
}

// YearOrCurrent returns Year, or currentYear when Year is unset,
// matching the composite scorer's recency treatment of a null year
// (§4.9).
func (p *Paper) YearOrCurrent(currentYear int) int {
	if p.Year == nil {
		return currentYear
	}
	return *p.Year
}
