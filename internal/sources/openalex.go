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
	openAlexSourceKey = "openalex"
	openAlexBaseURL   = "https://api.openalex.org"
	openAlexBatchSize = 50
)

// OpenAlexAdapter implements Adapter against the OpenAlex works API.
type OpenAlexAdapter struct {
	transport *transport.Transport
	apiKey    string
	mailto    string
}

// NewOpenAlexAdapter creates an OpenAlex adapter. apiKey and mailto
// may be empty.
func NewOpenAlexAdapter(t *transport.Transport, apiKey, mailto string) *OpenAlexAdapter {
	return &OpenAlexAdapter{transport: t, apiKey: apiKey, mailto: mailto}
}

func (a *OpenAlexAdapter) Tag() string { return openAlexSourceKey }

type openAlexWork struct {
	ID               string                     `json:"id"`
	DOI              string                     `json:"doi"`
	Title            string                     `json:"title"`
	DisplayName      string                     `json:"display_name"`
	PublicationYear  int                        `json:"publication_year"`
	CitedByCount     int                        `json:"cited_by_count"`
	PrimaryLocation  *openAlexLocation          `json:"primary_location"`
	AbstractInvIndex map[string]json.RawMessage `json:"abstract_inverted_index"`
	ReferencedWorks  []string                   `json:"referenced_works"`
	Concepts         []openAlexConcept          `json:"concepts"`
	Keywords         []openAlexKeyword          `json:"keywords"`
}

type openAlexLocation struct {
	Source *openAlexSourceInfo `json:"source"`
	URL    string              `json:"landing_page_url"`
}

type openAlexSourceInfo struct {
	DisplayName string `json:"display_name"`
}

type openAlexConcept struct {
	DisplayName string `json:"display_name"`
}

type openAlexKeyword struct {
	DisplayName string `json:"display_name"`
}

type openAlexWorksResponse struct {
	Results []openAlexWork `json:"results"`
}

func (a *OpenAlexAdapter) SearchByTopic(ctx context.Context, query string, limit int) ([]models.Paper, error) {
	perPage := limit
	if perPage > 200 {
		perPage = 200
	}
	u := fmt.Sprintf("%s/works?search=%s&sort=cited_by_count:desc&per_page=%d",
		openAlexBaseURL, url.QueryEscape(query), perPage)
	u = a.withCredentials(u)

	works, err := a.fetchWorks(ctx, u)
	if err != nil {
		return nil, err
	}
	return a.toPapers(works, limit), nil
}

func (a *OpenAlexAdapter) SearchByTitle(ctx context.Context, title string, limit int) ([]models.Paper, error) {
	perPage := limit
	if perPage > 200 {
		perPage = 200
	}

	exactURL := a.withCredentials(fmt.Sprintf("%s/works?filter=title.search:%s&per_page=%d",
		openAlexBaseURL, url.QueryEscape(title), perPage))

	works, err := a.fetchWorks(ctx, exactURL)
	if err != nil {
		return nil, err
	}
	if len(works) > 0 {
		return a.toPapers(works, limit), nil
	}

	return a.SearchByTopic(ctx, title, limit)
}

func (a *OpenAlexAdapter) FetchPaper(ctx context.Context, id string) (*models.Paper, error) {
	u := a.withCredentials(fmt.Sprintf("%s/works/%s", openAlexBaseURL, normalizeOpenAlexID(id)))
	resp, err := a.transport.Get(ctx, openAlexSourceKey, u)
	if err != nil {
		return nil, err
	}
	var work openAlexWork
	if err := transport.DecodeJSON(resp, &work); err != nil {
		return nil, err
	}
	p := a.toPaper(work)
	return &p, nil
}

func (a *OpenAlexAdapter) FetchReferences(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	u := a.withCredentials(fmt.Sprintf("%s/works/%s", openAlexBaseURL, normalizeOpenAlexID(paperID)))
	resp, err := a.transport.Get(ctx, openAlexSourceKey, u)
	if err != nil {
		return nil, err
	}
	var work openAlexWork
	if err := transport.DecodeJSON(resp, &work); err != nil {
		return nil, err
	}

	ids := work.ReferencedWorks
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return a.batchFetch(ctx, ids)
}

func (a *OpenAlexAdapter) FetchCitations(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	perPage := limit
	if perPage > 200 {
		perPage = 200
	}
	u := a.withCredentials(fmt.Sprintf("%s/works?filter=cites:%s&sort=cited_by_count:desc&per_page=%d",
		openAlexBaseURL, normalizeOpenAlexID(paperID), perPage))

	works, err := a.fetchWorks(ctx, u)
	if err != nil {
		return nil, err
	}
	return a.toPapers(works, limit), nil
}

// batchFetch fetches ids in batches of openAlexBatchSize using
// filter=openalex:<id1>|<id2>|...
func (a *OpenAlexAdapter) batchFetch(ctx context.Context, ids []string) ([]models.Paper, error) {
	var papers []models.Paper
	for start := 0; start < len(ids); start += openAlexBatchSize {
		end := start + openAlexBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		normalized := make([]string, len(batch))
		for i, id := range batch {
			normalized[i] = normalizeOpenAlexID(id)
		}

		u := a.withCredentials(fmt.Sprintf("%s/works?filter=openalex:%s&per_page=%d",
			openAlexBaseURL, strings.Join(normalized, "|"), len(batch)))

		works, err := a.fetchWorks(ctx, u)
		if err != nil {
			continue
		}
		papers = append(papers, a.toPapers(works, len(batch))...)
	}
	return papers, nil
}

func (a *OpenAlexAdapter) fetchWorks(ctx context.Context, u string) ([]openAlexWork, error) {
	resp, err := a.transport.Get(ctx, openAlexSourceKey, u)
	if err != nil {
		return nil, err
	}
	var wr openAlexWorksResponse
	if err := transport.DecodeJSON(resp, &wr); err != nil {
		return nil, err
	}
	return wr.Results, nil
}

func (a *OpenAlexAdapter) withCredentials(rawURL string) string {
	sep := "&"
	if !strings.Contains(rawURL, "?") {
		sep = "?"
	}
	if a.apiKey != "" {
		rawURL += sep + "api_key=" + url.QueryEscape(a.apiKey)
		sep = "&"
	}
	if a.mailto != "" {
		rawURL += sep + "mailto=" + url.QueryEscape(a.mailto)
	}
	return rawURL
}

func (a *OpenAlexAdapter) toPapers(works []openAlexWork, limit int) []models.Paper {
	if limit > 0 && len(works) > limit {
		works = works[:limit]
	}
	papers := make([]models.Paper, 0, len(works))
	for _, w := range works {
		papers = append(papers, a.toPaper(w))
	}
	return papers
}

func (a *OpenAlexAdapter) toPaper(w openAlexWork) models.Paper {
	var year *int
	if w.PublicationYear > 0 {
		y := w.PublicationYear
		year = &y
	}

	var doi *string
	if w.DOI != "" {
		d := stripDOIPrefix(w.DOI)
		doi = &d
	}

	arxivCandidates := []string{w.DOI}
	if w.PrimaryLocation != nil {
		arxivCandidates = append(arxivCandidates, w.PrimaryLocation.URL)
	}
	var arxivID *string
	if id := extractArxivID(arxivCandidates...); id != "" {
		arxivID = &id
	}

	var venue *string
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil && w.PrimaryLocation.Source.DisplayName != "" {
		v := w.PrimaryLocation.Source.DisplayName
		venue = &v
	}

	var pageURL *string
	if w.PrimaryLocation != nil && w.PrimaryLocation.URL != "" {
		u := w.PrimaryLocation.URL
		pageURL = &u
	}

	title := w.Title
	if title == "" {
		title = w.DisplayName
	}

	concepts := make([]string, 0, len(w.Concepts))
	for _, c := range w.Concepts {
		if c.DisplayName != "" {
			concepts = append(concepts, c.DisplayName)
		}
	}
	keywords := make([]string, 0, len(w.Keywords))
	for _, k := range w.Keywords {
		if k.DisplayName != "" {
			keywords = append(keywords, k.DisplayName)
		}
	}

	return models.Paper{
		Source:        openAlexSourceKey,
		SourceID:      normalizeOpenAlexID(w.ID),
		DOI:           doi,
		ArxivID:       arxivID,
		Title:         defaultTitle(title),
		Abstract:      reconstructAbstract(w.AbstractInvIndex),
		Year:          year,
		Venue:         venue,
		URL:           pageURL,
		CitationCount: w.CitedByCount,
		KeywordsJSON:  stableJSONArray(keywords),
		ConceptsJSON:  stableJSONArray(concepts),
	}
}

// normalizeOpenAlexID strips the https://openalex.org/ prefix from an
// id if present, else returns it unchanged. The OpenAlex API accepts
// both the bare id and the full IRI form in most contexts; this
// adapter sends the bare form everywhere.
func normalizeOpenAlexID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "https://openalex.org/")
	return id
}

