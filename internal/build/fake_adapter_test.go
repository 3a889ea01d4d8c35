package build

import (
	"context"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// fakeAdapter is a deterministic, in-memory stand-in for
// sources.Adapter used by the orchestrator's own tests — no network
// calls, no transport, no rate limiting.
type fakeAdapter struct {
	topicResults []models.Paper
	titleResults map[string][]models.Paper
	references   map[string][]models.Paper
	byID         map[string]models.Paper
}

func (f *fakeAdapter) Tag() string { return "fake" }

func (f *fakeAdapter) SearchByTopic(ctx context.Context, query string, limit int) ([]models.Paper, error) {
	results := f.topicResults
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *fakeAdapter) SearchByTitle(ctx context.Context, title string, limit int) ([]models.Paper, error) {
	results := f.titleResults[title]
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (f *fakeAdapter) FetchPaper(ctx context.Context, id string) (*models.Paper, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeAdapter) FetchReferences(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	refs := f.references[paperID]
	if len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

func (f *fakeAdapter) FetchCitations(ctx context.Context, paperID string, limit int) ([]models.Paper, error) {
	return nil, nil
}

func fakePaper(sourceID, title string) models.Paper {
	return models.Paper{Source: "fake", SourceID: sourceID, Title: title}
}
