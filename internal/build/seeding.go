package build

import (
	"context"
	"log/slog"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
)

const (
	minSeedLimit = 10
	maxSeedLimit = 200
)

// seedLimit computes clamp(floor(maxPapers*0.4), minSeedLimit, maxSeedLimit) (§4.11).
func seedLimit(maxPapers int) int {
	limit := maxPapers * 4 / 10
	if limit < minSeedLimit {
		return minSeedLimit
	}
	if limit > maxSeedLimit {
		return maxSeedLimit
	}
	return limit
}

// resolveSeeds collects seeds from topic search, per-title top-1
// search, and per-DOI fetch, in that order, deduplicated by natural
// key and truncated to seedLimit (§4.11). Search failures propagate
// (the build cannot start without seeds, per §7); a single title or
// DOI miss is logged and skipped, since a search or fetch that simply
// finds nothing is not itself a transport failure.
func (o *Orchestrator) resolveSeeds(ctx context.Context, seeds Seeds) ([]models.Paper, error) {
	limit := seedLimit(o.cfg.MaxPapers)

	seen := make(map[string]bool)
	var out []models.Paper

	add := func(p models.Paper) {
		key := p.Source + "|" + p.SourceID
		if seen[key] {
			return
		}
		if !o.inYearRange(p) {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	if seeds.Topic != "" {
		topicResults, err := o.adapter.SearchByTopic(ctx, seeds.Topic, limit)
		if err != nil {
			return nil, pgerrors.NewSourceError(o.adapter.Tag(), "topic search failed", err)
		}
		for _, p := range topicResults {
			add(p)
		}
	}

	for _, title := range seeds.Titles {
		results, err := o.adapter.SearchByTitle(ctx, title, 1)
		if err != nil {
			return nil, pgerrors.NewSourceError(o.adapter.Tag(), "title search failed", err)
		}
		if len(results) == 0 {
			o.logger.Warn("title search returned no results", slog.String("title", title))
			continue
		}
		add(results[0])
	}

	for _, doi := range seeds.DOIs {
		p, err := o.adapter.FetchPaper(ctx, doi)
		if err != nil {
			o.logger.Warn("seed DOI fetch failed", slog.String("doi", doi), slog.String("error", err.Error()))
			continue
		}
		if p == nil {
			o.logger.Warn("seed DOI not found", slog.String("doi", doi))
			continue
		}
		add(*p)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// inYearRange applies the --year-from/--year-to bounds (§6) to seed
// candidates. Spec.md leaves the exact application point unspecified;
// this build resolves it in favor of filtering at seed resolution —
// the BFS expansion and analytic stages never second-guess a paper
// that already made it into the store. A zero bound is treated as
// unset; a paper with no year passes both bounds unfiltered.
func (o *Orchestrator) inYearRange(p models.Paper) bool {
	if p.Year == nil {
		return true
	}
	if o.cfg.YearFrom != 0 && *p.Year < o.cfg.YearFrom {
		return false
	}
	if o.cfg.YearTo != 0 && *p.Year > o.cfg.YearTo {
		return false
	}
	return true
}

// persistSeeds inserts every seed in a single transaction and writes
// the assigned internal ids back into papers (§4.11's "Persist
// seeds" step).
func (o *Orchestrator) persistSeeds(ctx context.Context, papers []models.Paper) error {
	ids, err := o.store.InsertPapers(ctx, papers)
	if err != nil {
		return pgerrors.NewStoreError("insert_seeds", err)
	}
	for i := range papers {
		papers[i].ID = ids[i]
	}
	return nil
}
