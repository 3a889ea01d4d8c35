package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/citegraph"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/entities"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/graphalgo"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/simtext"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

// buildCorpus assembles one text.Document per paper — title plus
// abstract, or title plus keywords when the abstract is null, or
// title alone otherwise — and reports the percentage of papers with
// a null abstract in a single WARN line (§4.5 step 1). Papers are
// visited in the store's stable id order, the ordering the corpus-
// determinism contract in §8 depends on.
func (o *Orchestrator) buildCorpus(papers []models.Paper) (*text.Corpus, error) {
	docs := make([]text.Document, 0, len(papers))
	nullAbstracts := 0

	for _, p := range papers {
		var body string
		if p.Abstract != nil {
			body = p.Title + " " + *p.Abstract
		} else {
			nullAbstracts++
			if p.KeywordsJSON != nil {
				var keywords []string
				if err := json.Unmarshal([]byte(*p.KeywordsJSON), &keywords); err == nil && len(keywords) > 0 {
					body = p.Title + " " + strings.Join(keywords, " ")
				} else {
					body = p.Title
				}
			} else {
				body = p.Title
			}
		}
		docs = append(docs, text.Document{SourceID: p.SourceID, Text: body})
	}

	if len(papers) > 0 {
		pct := float64(nullAbstracts) * 100 / float64(len(papers))
		o.logger.Warn("papers with null abstract",
			slog.Int("count", nullAbstracts), slog.Float64("percent", pct))
	}

	return text.BuildCorpus(docs), nil
}

// emitAnalyticEdges builds and persists similarity/co-citation/
// coupling edges depending on the configured spine (§4.11's
// "Post-traversal" step): `citation` emits nothing here, `hybrid`
// emits all three, the others emit exactly the one named. Similarity
// edges are built only when similarity.enabled is also set.
func (o *Orchestrator) emitAnalyticEdges(ctx context.Context, corpus *text.Corpus, sourceToPaperID map[string]int64) error {
	spine := o.cfg.Spine

	if (spine == "similarity" || spine == "hybrid") && o.cfg.Similarity.Enabled {
		simEdges := simtext.BuildEdges(corpus, sourceToPaperID, o.cfg.Similarity.TopK, o.cfg.Similarity.Threshold)
		if err := o.persistEdges(ctx, simEdges); err != nil {
			return err
		}
	}

	if spine == "co-citation" || spine == "hybrid" {
		citesEdges, err := o.store.ListEdgesByType(ctx, models.EdgeCites)
		if err != nil {
			return pgerrors.NewStoreError("list_cites_edges", err)
		}
		coCited := citegraph.CoCitation(citesEdges)
		if err := o.persistEdges(ctx, coCited); err != nil {
			return err
		}
	}

	if spine == "coupling" || spine == "hybrid" {
		citesEdges, err := o.store.ListEdgesByType(ctx, models.EdgeCites)
		if err != nil {
			return pgerrors.NewStoreError("list_cites_edges", err)
		}
		coupled := citegraph.BibliographicCoupling(citesEdges)
		if err := o.persistEdges(ctx, coupled); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) persistEdges(ctx context.Context, edges []models.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	if _, err := o.store.InsertEdges(ctx, edges); err != nil {
		return pgerrors.NewStoreError("insert_analytic_edges", err)
	}
	return nil
}

// runAlgorithms reloads the current edge set, runs PageRank and, when
// clustering.enabled is set, Louvain, names clusters from the corpus,
// persists clusters and the paper-cluster junction, and writes
// influence_score for every paper
// (§4.11's "Algorithms and storage" step).
func (o *Orchestrator) runAlgorithms(ctx context.Context, papers []models.Paper, corpus *text.Corpus) error {
	allEdges, err := o.store.ListEdges(ctx)
	if err != nil {
		return pgerrors.NewStoreError("list_edges", err)
	}
	citesEdges, err := o.store.ListEdgesByType(ctx, models.EdgeCites)
	if err != nil {
		return pgerrors.NewStoreError("list_cites_edges", err)
	}

	paperIDs := make([]int64, len(papers))
	idToSourceID := make(map[int64]string, len(papers))
	for i, p := range papers {
		paperIDs[i] = p.ID
		idToSourceID[p.ID] = p.SourceID
	}

	pagerank := graphalgo.PageRank(paperIDs, citesEdges)

	var communities map[int][]int64
	if o.cfg.Clustering.Enabled {
		communities = graphalgo.Louvain(paperIDs, allEdges, o.cfg.Clustering.Seed)
	}

	for communityID, members := range communities {
		memberSourceIDs := make([]string, 0, len(members))
		for _, id := range members {
			memberSourceIDs = append(memberSourceIDs, idToSourceID[id])
		}
		name := graphalgo.NameCluster(corpus, communityID, memberSourceIDs)

		statsJSON, err := json.Marshal(map[string]interface{}{
			"member_count": len(members),
			"community_id": communityID,
		})
		if err != nil {
			return fmt.Errorf("marshal cluster stats: %w", err)
		}

		cluster := models.Cluster{
			Method:    fmt.Sprintf("louvain_%s", o.cfg.Spine),
			Name:      &name,
			StatsJSON: string(statsJSON),
		}
		if _, err := o.store.InsertCluster(ctx, cluster, members); err != nil {
			return pgerrors.NewStoreError("insert_cluster", err)
		}
	}

	for _, p := range papers {
		if err := o.store.UpdatePaperScore(ctx, p.ID, pagerank[p.ID]); err != nil {
			return pgerrors.NewStoreError("update_paper_score", err)
		}
	}

	return nil
}

// extractEntities runs the batch dictionary extractor over every
// paper and inserts the merged result in a single transaction
// (§4.11's "Optional entity extraction" step).
func (o *Orchestrator) extractEntities(ctx context.Context, papers []models.Paper) error {
	entityList, links := entities.BatchExtract(papers)
	if len(entityList) == 0 {
		return nil
	}
	if err := o.store.InsertEntityBatch(ctx, entityList, links); err != nil {
		return pgerrors.NewStoreError("insert_entity_batch", err)
	}
	return nil
}
