package build

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
)

type naturalKey struct {
	source, sourceID string
}

// expand runs the bounded BFS citation traversal (§4.11's "BFS
// expansion" step): frontier/visited/edge_seen bookkeeping, the
// three-branch per-referenced-paper decision, and an early break when
// the next frontier is empty.
func (o *Orchestrator) expand(ctx context.Context, seeds []models.Paper) error {
	visited := make(map[naturalKey]bool, len(seeds))
	frontier := make([]models.Paper, len(seeds))
	copy(frontier, seeds)
	for _, p := range seeds {
		visited[naturalKey{p.Source, p.SourceID}] = true
	}

	edgeSeen := make(map[[2]int64]bool)
	paperCount := len(seeds)

	for depth := 0; depth < o.cfg.Depth; depth++ {
		atCapacity := paperCount >= o.cfg.MaxPapers
		var nextFrontier []models.Paper

		for _, citer := range frontier {
			if citer.ID == 0 {
				continue
			}

			refs, err := o.adapter.FetchReferences(ctx, citer.SourceID, o.cfg.MaxRefsPerPaper)
			if err != nil {
				o.logger.Warn("fetch references failed",
					slog.Int64("paper_id", citer.ID), slog.String("error", err.Error()))
				continue
			}

			for _, ref := range refs {
				existing, err := o.store.GetPaperByNaturalKey(ctx, ref.Source, ref.SourceID)
				if err != nil {
					return pgerrors.NewStoreError("get_paper_by_natural_key", err)
				}

				switch {
				case existing != nil:
					if err := o.emitCitesEdge(ctx, edgeSeen, citer.ID, existing.ID, depth); err != nil {
						return err
					}

				case !atCapacity && !visited[naturalKey{ref.Source, ref.SourceID}]:
					ids, err := o.store.InsertPapers(ctx, []models.Paper{ref})
					if err != nil {
						return pgerrors.NewStoreError("insert_referenced_paper", err)
					}
					ref.ID = ids[0]
					visited[naturalKey{ref.Source, ref.SourceID}] = true
					paperCount++
					if paperCount >= o.cfg.MaxPapers {
						atCapacity = true
					}

					if err := o.emitCitesEdge(ctx, edgeSeen, citer.ID, ref.ID, depth); err != nil {
						return err
					}
					nextFrontier = append(nextFrontier, ref)

				default:
					// New but at capacity: skip entirely, no edge, no
					// insert (§4.11 step 3's capacity-gate rationale).
				}
			}
		}

		if len(nextFrontier) == 0 {
			break
		}
		frontier = nextFrontier
	}

	return nil
}

func (o *Orchestrator) emitCitesEdge(ctx context.Context, edgeSeen map[[2]int64]bool, citerID, citedID int64, depth int) error {
	if citerID == citedID {
		return nil
	}
	key := [2]int64{citerID, citedID}
	if edgeSeen[key] {
		return nil
	}
	edgeSeen[key] = true

	provenance, err := json.Marshal(map[string]interface{}{"source": o.cfg.Source, "depth": depth})
	if err != nil {
		return err
	}

	edge := models.Edge{
		Src:            citerID,
		Dst:            citedID,
		Type:           models.EdgeCites,
		Weight:         1,
		Confidence:     1,
		CreatedBy:      models.CreatedByAlgo,
		ProvenanceJSON: string(provenance),
	}

	if _, err := o.store.InsertEdges(ctx, []models.Edge{edge}); err != nil {
		return pgerrors.NewStoreError("insert_cites_edge", err)
	}
	return nil
}
