package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/transport"
)

const (
	s2SourceKey   = "s2"
	s2BaseURL     = "https://api.semanticscholar.org/graph/v1"
	s2BatchMaxIDs = 500
	s2FieldList   = "paperId,externalIds,title,abstract,venue,year,citationCount,referenceCount,fieldsOfStudy,url"
)

// SemanticScholarAdapter implements Adapter against the Semantic
// Scholar Graph API.
type SemanticScholarAdapter struct {
	transport *transport.Transport
	apiKey    string
	baseURL   string
}

// NewSemanticScholarAdapter creates a Semantic Scholar adapter.
// apiKey may be empty.
func NewSemanticScholarAdapter(t *transport.Transport, apiKey string) *SemanticScholarAdapter {
	return &SemanticScholarAdapter{transport: t, apiKey: apiKey, baseURL: s2BaseURL}
}

func (a *SemanticScholarAdapter) Tag() string { return s2SourceKey }

type s2Paper struct {
	PaperID        string         `json:"paperId"`
	ExternalIDs    *s2ExternalIDs `json:"externalIds"`
	Title          string         `json:"title"`
	Abstract       string         `json:"abstract"`
	Venue          string         `json:"venue"`
	Year           int            `json:"year"`
	CitationCount  int            `json:"citationCount"`
	ReferenceCount int            `json:"referenceCount"`
	FieldsOfStudy  []string       `json:"fieldsOfStudy"`
	URL            string         `json:"url"`
}

type s2ExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type s2SearchResponse struct {
	Data []s2Paper `json:"data"`
}

func (a *SemanticScholarAdapter) SearchByTopic(ctx context.Context, query string, limit int) ([]models.Paper, error) {
	u := fmt.Sprintf("%s/paper/search?query=%s&limit=%d&fields=%s",
		a.baseURL, url.QueryEscape(sanitizeS2Query(query)), clampS2Limit(limit), s2FieldList)

	papers, err := a.search(ctx, u)
	if err != nil {
		return nil, err
	}
	return a.toPapers(papers, limit), nil
}

func (a *SemanticScholarAdapter) SearchByTitle(ctx context.Context, title string, limit int) ([]models.Paper, error) {
	return a.SearchByTopic(ctx, title, limit)
}

func (a *SemanticScholarAdapter) FetchPaper(ctx context.Context, id string) (*models.Paper, error) {
	u := fmt.Sprintf("%s/paper/%s?fields=%s", a.baseURL, url.PathEscape(id), s2FieldList)
	resp, err := a.transport.GetWithHeaders(ctx, s2SourceKey, u, a.authHeaders())
	if err != nil {
		return nil, err
	}
	var p s2Paper
	if err := transport.DecodeJSON(resp, &p); err != nil {
		return nil, err
	}
	paper := a.toPaper(p)
	return &paper, nil
}

// FetchReferences resolves paperID's reference ids with a cheap
// id-only GET, then fetches full records for them through BatchFetch
// — the same two-step id-list-then-batch shape OpenAlexAdapter uses,
// so a paper with more than s2BatchMaxIDs references actually drives
// the batched POST path (§8).
func (a *SemanticScholarAdapter) FetchReferences(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	ids, err := a.fetchRelatedIDs(ctx, paperID, "references", limit)
	if err != nil {
		return nil, err
	}
	return a.BatchFetch(ctx, ids)
}

// FetchCitations is FetchReferences over the "citations" relation.
func (a *SemanticScholarAdapter) FetchCitations(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	ids, err := a.fetchRelatedIDs(ctx, paperID, "citations", limit)
	if err != nil {
		return nil, err
	}
	return a.BatchFetch(ctx, ids)
}

// fetchRelatedIDs issues a single GET for just the paperId field of
// relation ("references" or "citations"), truncated to limit.
func (a *SemanticScholarAdapter) fetchRelatedIDs(ctx context.Context, paperID, relation string, limit int) ([]string, error) {
	u := fmt.Sprintf("%s/paper/%s?fields=%s.paperId", a.baseURL, url.PathEscape(paperID), relation)
	resp, err := a.transport.GetWithHeaders(ctx, s2SourceKey, u, a.authHeaders())
	if err != nil {
		return nil, err
	}

	var envelope map[string][]struct {
		PaperID string `json:"paperId"`
	}
	if err := transport.DecodeJSON(resp, &envelope); err != nil {
		return nil, err
	}

	related := envelope[relation]
	ids := make([]string, 0, len(related))
	for _, r := range related {
		if r.PaperID != "" {
			ids = append(ids, r.PaperID)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// BatchFetch fetches ids in sequential batches of s2BatchMaxIDs via
// POST /paper/batch; the response is a JSON array parallel to the
// input with null entries for unknown ids, which are skipped.
func (a *SemanticScholarAdapter) BatchFetch(ctx context.Context, ids []string) ([]models.Paper, error) {
	var papers []models.Paper

	for start := 0; start < len(ids); start += s2BatchMaxIDs {
		end := start + s2BatchMaxIDs
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		body, err := json.Marshal(map[string][]string{"ids": batch})
		if err != nil {
			return nil, err
		}

		u := fmt.Sprintf("%s/paper/batch?fields=%s", a.baseURL, s2FieldList)
		headers := map[string]string{}
		if a.apiKey != "" {
			headers["x-api-key"] = a.apiKey
		}

		resp, err := a.transport.Post(ctx, s2SourceKey, u, headers, body)
		if err != nil {
			continue
		}

		var results []*s2Paper
		if err := transport.DecodeJSON(resp, &results); err != nil {
			continue
		}

		for _, r := range results {
			if r == nil {
				continue
			}
			papers = append(papers, a.toPaper(*r))
		}
	}

	return papers, nil
}

func (a *SemanticScholarAdapter) search(ctx context.Context, u string) ([]s2Paper, error) {
	resp, err := a.transport.GetWithHeaders(ctx, s2SourceKey, u, a.authHeaders())
	if err != nil {
		return nil, err
	}
	var sr s2SearchResponse
	if err := transport.DecodeJSON(resp, &sr); err != nil {
		return nil, err
	}
	return sr.Data, nil
}

func (a *SemanticScholarAdapter) authHeaders() map[string]string {
	if a.apiKey == "" {
		return nil
	}
	return map[string]string{"x-api-key": a.apiKey}
}

func (a *SemanticScholarAdapter) toPapers(raw []s2Paper, limit int) []models.Paper {
	if limit > 0 && len(raw) > limit {
		raw = raw[:limit]
	}
	papers := make([]models.Paper, 0, len(raw))
	for _, p := range raw {
		if p.PaperID == "" {
			continue
		}
		papers = append(papers, a.toPaper(p))
	}
	return papers
}

func (a *SemanticScholarAdapter) toPaper(p s2Paper) models.Paper {
	var year *int
	if p.Year > 0 {
		y := p.Year
		year = &y
	}

	var doi *string
	var arxivCandidates []string
	if p.ExternalIDs != nil {
		if p.ExternalIDs.DOI != "" {
			d := stripDOIPrefix(p.ExternalIDs.DOI)
			doi = &d
		}
		if p.ExternalIDs.ArXiv != "" {
			arxivCandidates = append(arxivCandidates, p.ExternalIDs.ArXiv)
		}
	}
	var arxivID *string
	if id := extractArxivID(arxivCandidates...); id != "" {
		arxivID = &id
	}

	var abstract *string
	if p.Abstract != "" {
		abstract = &p.Abstract
	}
	var venue *string
	if p.Venue != "" {
		venue = &p.Venue
	}
	var pageURL *string
	if p.URL != "" {
		pageURL = &p.URL
	}

	return models.Paper{
		Source:        s2SourceKey,
		SourceID:      p.PaperID,
		DOI:           doi,
		ArxivID:       arxivID,
		Title:         defaultTitle(p.Title),
		Abstract:      abstract,
		Year:          year,
		Venue:         venue,
		URL:           pageURL,
		CitationCount: p.CitationCount,
		ConceptsJSON:  stableJSONArray(p.FieldsOfStudy),
	}
}

// sanitizeS2Query replaces '-' and '+' with spaces, since Semantic
// Scholar treats them as query operators (§4.2).
func sanitizeS2Query(query string) string {
	replacer := strings.NewReplacer("-", " ", "+", " ")
	return replacer.Replace(query)
}

func clampS2Limit(limit int) int {
	if limit > 100 {
		return 100
	}
	if limit < 1 {
		return 1
	}
	return limit
}
