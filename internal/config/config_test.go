package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Source:     "openalex",
		Spine:      "citation",
		Depth:      2,
		MaxPapers:  200,
		Out:        "./out.db",
		Similarity: SimilarityConfig{TopK: 10, Threshold: 0.25},
		Clustering: ClusteringConfig{Method: "louvain", Seed: 1},
		Ranking:    RankingConfig{PagerankWeight: 0.5, RelevanceWeight: 0.3, RecencyWeight: 0.2},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidateAcceptsAWellFormedConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMixedSource(t *testing.T) {
	cfg := validConfig()
	cfg.Source = "mixed"
	assert.Error(t, cfg.Validate(), "mixed is not in the source oneof and must be rejected at validation")
}

func TestValidateRejectsUnknownSpine(t *testing.T) {
	cfg := validConfig()
	cfg.Spine = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeDepth(t *testing.T) {
	cfg := validConfig()
	cfg.Depth = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking = RankingConfig{PagerankWeight: 0.5, RelevanceWeight: 0.5, RecencyWeight: 0.5}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsWeightsWithinFloatingPointTolerance(t *testing.T) {
	cfg := validConfig()
	cfg.Ranking = RankingConfig{PagerankWeight: 0.500000001, RelevanceWeight: 0.3, RecencyWeight: 0.2}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}
