// Package build implements the build orchestrator — the spine that
// sequences every other component into one run: seed resolution,
// bounded BFS citation expansion, corpus construction, analytic edge
// emission, graph algorithms, optional entity extraction, and the
// final run record (§4.11).
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/sources"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/store"
)

// ToolVersion is recorded in every run row (§4.11). Bumped on release,
// not on every commit.
const ToolVersion = "0.1.0"

// Seeds is the set of heterogeneous inputs the build resolves into an
// initial paper set (§4.11's "Seeding" step).
type Seeds struct {
	Topic  string
	Titles []string
	DOIs   []string
}

// Orchestrator owns one build's lifecycle: adapter, store and logger
// are injected so the CLI entry point controls wiring (§10's
// dependency-injection note — hand-written constructors over a
// generated DI graph).
type Orchestrator struct {
	adapter sources.Adapter
	store   *store.Store
	cfg     *config.Config
	logger  *slog.Logger
}

// New builds an Orchestrator. The store is owned by the caller for
// its full lifetime; Run does not close it — cleanup is the CLI
// entry point's responsibility, matching §4.11's "close the store on
// any exit path" note applying at the process boundary that opened
// it.
func New(adapter sources.Adapter, st *store.Store, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{adapter: adapter, store: st, cfg: cfg, logger: logger}
}

// Result summarizes one completed build for the caller.
type Result struct {
	RunID      int64
	PaperCount int
	EdgeCount  int
}

// Run executes the full spine in the order §2's control-flow summary
// and §4.11 specify: seed → persist seeds → BFS → post-traversal
// analytic edges → algorithms → optional entities → run record.
func (o *Orchestrator) Run(ctx context.Context, seeds Seeds) (*Result, error) {
	papers, err := o.resolveSeeds(ctx, seeds)
	if err != nil {
		return nil, err
	}

	if len(papers) == 0 {
		o.logger.Warn("no seeds resolved, recording empty run", slog.String("topic", seeds.Topic))
		runID, rerr := o.recordRun(ctx)
		if rerr != nil {
			return nil, rerr
		}
		return &Result{RunID: runID}, nil
	}

	if err := o.persistSeeds(ctx, papers); err != nil {
		return nil, err
	}

	if err := o.expand(ctx, papers); err != nil {
		return nil, err
	}

	allPapers, err := o.store.ListPapers(ctx)
	if err != nil {
		return nil, pgerrors.NewStoreError("list_papers", err)
	}

	corpus, err := o.buildCorpus(allPapers)
	if err != nil {
		return nil, err
	}

	sourceToPaperID := make(map[string]int64, len(allPapers))
	for _, p := range allPapers {
		sourceToPaperID[p.SourceID] = p.ID
	}

	if err := o.emitAnalyticEdges(ctx, corpus, sourceToPaperID); err != nil {
		return nil, err
	}

	if err := o.runAlgorithms(ctx, allPapers, corpus); err != nil {
		return nil, err
	}

	if o.cfg.Entities.Enabled {
		if err := o.extractEntities(ctx, allPapers); err != nil {
			return nil, err
		}
	}

	runID, err := o.recordRun(ctx)
	if err != nil {
		return nil, err
	}

	finalEdges, err := o.store.ListEdges(ctx)
	if err != nil {
		return nil, pgerrors.NewStoreError("list_edges", err)
	}

	o.logger.Info("build complete",
		slog.Int64("run_id", runID),
		slog.Int("paper_count", len(allPapers)),
		slog.Int("edge_count", len(finalEdges)))

	return &Result{RunID: runID, PaperCount: len(allPapers), EdgeCount: len(finalEdges)}, nil
}

func (o *Orchestrator) recordRun(ctx context.Context) (int64, error) {
	stats, err := o.store.Stats(ctx)
	if err != nil {
		return 0, pgerrors.NewStoreError("stats", err)
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return 0, fmt.Errorf("marshal stats: %w", err)
	}

	configJSON, err := json.Marshal(o.cfg)
	if err != nil {
		return 0, fmt.Errorf("marshal config: %w", err)
	}

	run := models.Run{
		UUID:        uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		ToolVersion: ToolVersion,
		ConfigJSON:  string(configJSON),
		Source:      o.cfg.Source,
		Spine:       o.cfg.Spine,
		Depth:       o.cfg.Depth,
		StatsJSON:   string(statsJSON),
	}

	runID, err := o.store.InsertRun(ctx, run)
	if err != nil {
		return 0, pgerrors.NewStoreError("insert_run", err)
	}
	return runID, nil
}
