package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/build"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/sources"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/store"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/transport"
)

// buildFlags mirrors spec's `build` CLI surface (§6) one field per
// flag; only flags the user actually set (cmd.Flags().Changed)
// override config, so an explicit zero is applied too.
type buildFlags struct {
	topic         string
	papers        []string
	dois          []string
	source        string
	spine         string
	depth         int
	maxPapers     int
	maxRefs       int
	maxCites      int
	yearFrom      int
	yearTo        int
	out           string
	logLevel      string
	jsonLogs      bool
	noCache       bool
	configPath    string
}

// NewBuildCommand wires the `build` subcommand: config → logger →
// transport → adapter → store → orchestrator, in that order, so each
// collaborator only depends on ones already constructed.
func NewBuildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve seeds, expand the citation graph and run analytics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.topic, "topic", "", "seed topic search query")
	flags.StringArrayVar(&f.papers, "paper", nil, "seed paper title (repeatable)")
	flags.StringArrayVar(&f.dois, "doi", nil, "seed paper DOI (repeatable)")
	flags.StringVar(&f.source, "source", "", "bibliographic source (openalex|s2)")
	flags.StringVar(&f.spine, "spine", "", "edge spine (citation|similarity|co-citation|coupling|hybrid)")
	flags.IntVar(&f.depth, "depth", 0, "BFS expansion depth")
	flags.IntVar(&f.maxPapers, "max-papers", 0, "maximum papers in the store")
	flags.IntVar(&f.maxRefs, "max-refs", 0, "maximum references fetched per paper")
	flags.IntVar(&f.maxCites, "max-cites", 0, "maximum citations fetched per paper")
	flags.IntVar(&f.yearFrom, "year-from", 0, "earliest publication year to seed")
	flags.IntVar(&f.yearTo, "year-to", 0, "latest publication year to seed")
	flags.StringVar(&f.out, "out", "", "output store path")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (error|warn|info|debug)")
	flags.BoolVar(&f.jsonLogs, "json-logs", false, "emit structured JSON logs")
	flags.BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
	flags.StringVar(&f.configPath, "config", "", "explicit config file path")

	return cmd
}

func runBuild(cmd *cobra.Command, f buildFlags) error {
	cfg, err := config.LoadConfigFromPath(f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyBuildOverrides(cfg, cmd, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := config.NewLogger(cfg)

	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("parse cache.ttl: %w", err)
	}

	t := transport.New(transport.Config{
		Mailto:   cfg.Providers.OpenAlex.Mailto,
		CacheDir: cfg.Cache.Dir,
		CacheTTL: ttl,
		CacheOff: cfg.Cache.Disabled,
	}, logger)

	adapter, err := newAdapter(cfg, t)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Out, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	orch := build.New(adapter, st, cfg, logger)

	result, err := orch.Run(cmd.Context(), build.Seeds{
		Topic:  f.topic,
		Titles: f.papers,
		DOIs:   f.dois,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %d: %d papers, %d edges\n", result.RunID, result.PaperCount, result.EdgeCount)
	logRunDiagnostics(logger, t, st)
	return nil
}

// logRunDiagnostics emits one INFO line per source with at least one
// request, and one for the store's retry counters — the transport's
// per-source breaker/request-count state and the store's bulk-
// transaction retry state otherwise never surface outside the process
// that built them.
func logRunDiagnostics(logger *slog.Logger, t *transport.Transport, st *store.Store) {
	counts := t.RequestCounts()
	snapshot := t.BreakerSnapshot()
	for source, requests := range counts {
		bs := snapshot[source]
		logger.Info("source diagnostics",
			slog.String("source", source),
			slog.Int64("requests", requests),
			slog.String("breaker_state", bs.State.String()),
			slog.Int64("breaker_failed", bs.Metrics.FailedReqs),
			slog.Int64("breaker_open_rejections", bs.Metrics.CircuitOpenReqs))
	}

	retryStats := st.RetryStats()
	if retryStats.TotalAttempts > 0 {
		logger.Info("store retry diagnostics",
			slog.Int64("total_attempts", retryStats.TotalAttempts),
			slog.Int64("successful_retries", retryStats.SuccessfulRetries),
			slog.Int64("failed_retries", retryStats.FailedRetries),
			slog.Float64("average_attempts", retryStats.AverageAttempts))
	}
}

func applyBuildOverrides(cfg *config.Config, cmd *cobra.Command, f buildFlags) {
	changed := cmd.Flags().Changed

	if changed("source") {
		cfg.Source = f.source
	}
	if changed("spine") {
		cfg.Spine = f.spine
	}
	if changed("depth") {
		cfg.Depth = f.depth
	}
	if changed("max-papers") {
		cfg.MaxPapers = f.maxPapers
	}
	if changed("max-refs") {
		cfg.MaxRefsPerPaper = f.maxRefs
	}
	if changed("max-cites") {
		cfg.MaxCitesPerPaper = f.maxCites
	}
	if changed("year-from") {
		cfg.YearFrom = f.yearFrom
	}
	if changed("year-to") {
		cfg.YearTo = f.yearTo
	}
	if changed("out") {
		cfg.Out = f.out
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("json-logs") && f.jsonLogs {
		cfg.Logging.Format = "json"
	}
	if changed("no-cache") && f.noCache {
		cfg.Cache.Disabled = true
	}
}

func newAdapter(cfg *config.Config, t *transport.Transport) (sources.Adapter, error) {
	switch cfg.Source {
	case "openalex":
		return sources.NewOpenAlexAdapter(t, cfg.Providers.OpenAlex.APIKey, cfg.Providers.OpenAlex.Mailto), nil
	case "s2":
		return sources.NewSemanticScholarAdapter(t, cfg.Providers.S2.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported source %q", cfg.Source)
	}
}
