package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
)

func newBuildFlagsCmd() (*cobra.Command, *buildFlags) {
	f := &buildFlags{}
	cmd := &cobra.Command{Use: "build"}
	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "", "")
	flags.StringVar(&f.spine, "spine", "", "")
	flags.IntVar(&f.depth, "depth", 0, "")
	flags.IntVar(&f.maxPapers, "max-papers", 0, "")
	flags.IntVar(&f.yearFrom, "year-from", 0, "")
	flags.IntVar(&f.yearTo, "year-to", 0, "")
	flags.StringVar(&f.out, "out", "", "")
	flags.BoolVar(&f.noCache, "no-cache", false, "")
	return cmd, f
}

func TestApplyBuildOverridesLeavesConfigUntouchedWhenNoFlagsSet(t *testing.T) {
	cmd, f := newBuildFlagsCmd()
	cfg := &config.Config{Source: "openalex", Spine: "citation", Depth: 2, MaxPapers: 200, Out: "./papergraph.db"}

	applyBuildOverrides(cfg, cmd, *f)

	assert.Equal(t, "openalex", cfg.Source)
	assert.Equal(t, "citation", cfg.Spine)
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, 200, cfg.MaxPapers)
	assert.False(t, cfg.Cache.Disabled)
}

func TestApplyBuildOverridesAppliesOnlyChangedFlags(t *testing.T) {
	cmd, f := newBuildFlagsCmd()
	require.NoError(t, cmd.Flags().Set("spine", "hybrid"))
	require.NoError(t, cmd.Flags().Set("max-papers", "50"))
	require.NoError(t, cmd.Flags().Set("no-cache", "true"))
	f.spine = "hybrid"
	f.maxPapers = 50
	f.noCache = true

	cfg := &config.Config{Source: "openalex", Spine: "citation", Depth: 2, MaxPapers: 200, Out: "./papergraph.db"}

	applyBuildOverrides(cfg, cmd, *f)

	assert.Equal(t, "openalex", cfg.Source, "unset flag must not override")
	assert.Equal(t, "hybrid", cfg.Spine)
	assert.Equal(t, 50, cfg.MaxPapers)
	assert.True(t, cfg.Cache.Disabled)
}

func TestNewAdapterRejectsUnknownSource(t *testing.T) {
	cfg := &config.Config{Source: "mixed"}
	_, err := newAdapter(cfg, nil)
	require.Error(t, err)
}
