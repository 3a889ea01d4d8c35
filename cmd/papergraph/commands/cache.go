package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/transport"
)

// NewCacheCommand wires `cache {clear|stats}` (§6).
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response-cache directory",
	}

	cmd.AddCommand(newCacheStatsCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func openCache() (*transport.ResponseCache, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("parse cache.ttl: %w", err)
	}

	return transport.NewResponseCache(cfg.Cache.Dir, ttl, cfg.Cache.Disabled), nil
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache occupancy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := openCache()
			if err != nil {
				return err
			}
			stats, err := cache.Stats()
			if err != nil {
				return fmt.Errorf("cache stats: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\ntotal_size_bytes: %d\n", stats.Entries, stats.TotalSize)
			return nil
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := openCache()
			if err != nil {
				return err
			}
			if err := cache.Clear(); err != nil {
				return fmt.Errorf("cache clear: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	}
}
