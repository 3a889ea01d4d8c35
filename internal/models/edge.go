package models

// EdgeType is one of the sixteen values in the closed edge-type
// vocabulary (§3), partitioned into core (deterministic, emitted by
// the algorithmic components) and enrichment (labels an external
// LLM labeler would attach — out of scope for this build, declared
// but never emitted per §9).
type EdgeType string

const (
	// Core, deterministic edge types.
	EdgeCites         EdgeType = "CITES"
	EdgeCitedBy       EdgeType = "CITED_BY"
	EdgeCoCited       EdgeType = "CO_CITED"
	EdgeBibCoupled    EdgeType = "BIB_COUPLED"
	EdgeSimilarText   EdgeType = "SIMILAR_TEXT"
	EdgeSharedKeywords EdgeType = "SHARED_KEYWORDS"
	EdgeSameAuthor    EdgeType = "SAME_AUTHOR"
	EdgeSameVenue     EdgeType = "SAME_VENUE"

	// Enrichment edge types: declared for schema completeness, never
	// emitted by any spine (§9) — no LLM labeler is wired into this
	// build.
	EdgeExtends            EdgeType = "EXTENDS"
	EdgeImproves           EdgeType = "IMPROVES"
	EdgeSurveys            EdgeType = "SURVEYS"
	EdgeContradicts        EdgeType = "CONTRADICTS"
	EdgeUsesMethod         EdgeType = "USES_METHOD"
	EdgeIntroducesMethod   EdgeType = "INTRODUCES_METHOD"
	EdgeUsesDataset        EdgeType = "USES_DATASET"
	EdgeIntroducesDataset  EdgeType = "INTRODUCES_DATASET"
)

// CreatorTag distinguishes algorithmically-created edges from
// LLM-labeled ones.
type CreatorTag string

const (
	CreatedByAlgo CreatorTag = "algo"
	CreatedByLLM  CreatorTag = "llm"
)

// Edge is a directed ordered pair (Src, Dst) tagged with a type from
// the closed vocabulary above. CITES is strictly directed
// (citer → cited); symmetric analytic relations (CO_CITED,
// BIB_COUPLED, SIMILAR_TEXT) are stored once per unordered pair with
// Src < Dst to avoid duplicate rows (§9 "mixed directed/undirected
// views").
type Edge struct {
	ID         int64      `json:"id"`
	Src        int64      `json:"src"`
	Dst        int64      `json:"dst"`
	Type       EdgeType   `json:"type"`
	Weight     float64    `json:"weight"`
	Confidence float64    `json:"confidence"`
	Rationale  *string    `json:"rationale,omitempty"`
	Evidence   *string    `json:"evidence,omitempty"`
	CreatedBy  CreatorTag `json:"created_by"`
	// ProvenanceJSON is a free-form JSON blob: algorithm name/version
	// and parameters for analytic edges, {source, depth} for CITES.
	ProvenanceJSON string `json:"provenance_json"`
}

// PairKey returns the canonical (min, max) ordering used to dedup an
// unordered-pair edge before insertion.
func PairKey(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}
