package build

import (
	"context"
	"time"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/scoring"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/store"
)

// CompositeScores recomputes the reporting-only composite score
// (§4.9) for every paper currently in the store, against an optional
// topic query, using the persisted influence_score as the PageRank
// input rather than rerunning PageRank. This is the callable entry
// point the out-of-scope `inspect`/report CLI collaborator is
// expected to call (§12) — it never writes back to the store, since
// the composite score is reporting-only.
func (o *Orchestrator) CompositeScores(ctx context.Context, topic string) (map[int64]float64, error) {
	papers, err := o.store.ListPapers(ctx)
	if err != nil {
		return nil, pgerrors.NewStoreError("list_papers", err)
	}

	pagerank := make(map[int64]float64, len(papers))
	for _, p := range papers {
		pagerank[p.ID] = p.InfluenceScore
	}

	corpus, err := o.buildCorpus(papers)
	if err != nil {
		return nil, err
	}

	weights := scoring.WeightsFromConfig(o.cfg.Ranking)
	scorer := scoring.NewScorer(papers, pagerank, corpus, topic, time.Now().UTC().Year(), weights)
	return scorer.ScoreAll(papers), nil
}

// Stats is the callable entry point backing the out-of-scope
// `inspect` CLI collaborator (§6, §12): it just forwards to
// Store.Stats, already specified in full by §4.3.
func (o *Orchestrator) Stats(ctx context.Context) (store.Stats, error) {
	stats, err := o.store.Stats(ctx)
	if err != nil {
		return store.Stats{}, pgerrors.NewStoreError("stats", err)
	}
	return stats, nil
}
