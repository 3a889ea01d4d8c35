// Package sources implements the bibliographic source adapters
// (OpenAlex, Semantic Scholar) that the build orchestrator pulls
// papers from (§4.2).
package sources

import (
	"context"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// Adapter exposes the five operations every bibliographic source
// implements, all returning already-normalized Paper records.
type Adapter interface {
	// Tag returns the source tag this adapter normalizes into
	// ("openalex" or "s2").
	Tag() string

	SearchByTopic(ctx context.Context, query string, limit int) ([]models.Paper, error)
	SearchByTitle(ctx context.Context, title string, limit int) ([]models.Paper, error)
	FetchPaper(ctx context.Context, id string) (*models.Paper, error)

	// FetchReferences returns the works this paper cites, up to limit.
	FetchReferences(ctx context.Context, paperID string, limit int) ([]models.Paper, error)

	// FetchCitations returns the works that cite this paper, up to limit.
	FetchCitations(ctx context.Context, paperID string, limit int) ([]models.Paper, error)
}
