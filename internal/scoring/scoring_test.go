package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

func intPtr(i int) *int { return &i }

func TestScoreHigherPagerankYieldsHigherScore(t *testing.T) {
	papers := []models.Paper{
		{ID: 1, SourceID: "p1", Year: intPtr(2020)},
		{ID: 2, SourceID: "p2", Year: intPtr(2020)},
	}
	pagerank := map[int64]float64{1: 0.9, 2: 0.1}
	weights := Weights{Pagerank: 1, Relevance: 0, Recency: 0}

	scorer := NewScorer(papers, pagerank, nil, "", 2026, weights)
	s1 := scorer.Score(papers[0])
	s2 := scorer.Score(papers[1])
	assert.Greater(t, s1, s2)
}

func TestScoreClampedToOne(t *testing.T) {
	papers := []models.Paper{{ID: 1, SourceID: "p1", Year: intPtr(2026)}}
	pagerank := map[int64]float64{1: 1.0}
	weights := Weights{Pagerank: 1, Relevance: 1, Recency: 1}

	corpus := text.BuildCorpus([]text.Document{{SourceID: "p1", Text: "graph neural network"}})
	scorer := NewScorer(papers, pagerank, corpus, "graph neural network", 2026, weights)
	score := scorer.Score(papers[0])
	assert.LessOrEqual(t, score, 1.0)
}

func TestScoreRecencyFallsBackForNilYear(t *testing.T) {
	papers := []models.Paper{
		{ID: 1, SourceID: "p1", Year: intPtr(2000)},
		{ID: 2, SourceID: "p2", Year: nil},
	}
	pagerank := map[int64]float64{1: 0.5, 2: 0.5}
	weights := Weights{Pagerank: 0, Relevance: 0, Recency: 1}

	scorer := NewScorer(papers, pagerank, nil, "", 2026, weights)
	// paper 2 has no year, treated as currentYear (2026) -> max recency term (1.0)
	assert.InDelta(t, 1.0, scorer.Score(papers[1]), 1e-9)
	assert.Less(t, scorer.Score(papers[0]), scorer.Score(papers[1]))
}

func TestScoreEmptyTopicGivesZeroRelevance(t *testing.T) {
	papers := []models.Paper{{ID: 1, SourceID: "p1", Year: intPtr(2020)}}
	pagerank := map[int64]float64{1: 0.5}
	weights := Weights{Pagerank: 0, Relevance: 1, Recency: 0}

	scorer := NewScorer(papers, pagerank, nil, "", 2026, weights)
	assert.Equal(t, 0.0, scorer.Score(papers[0]))
}

func TestScoreAllCoversEveryPaper(t *testing.T) {
	papers := []models.Paper{
		{ID: 1, SourceID: "p1", Year: intPtr(2020)},
		{ID: 2, SourceID: "p2", Year: intPtr(2022)},
	}
	pagerank := map[int64]float64{1: 0.2, 2: 0.8}
	weights := Weights{Pagerank: 0.5, Relevance: 0.3, Recency: 0.2}

	scorer := NewScorer(papers, pagerank, nil, "", 2026, weights)
	all := scorer.ScoreAll(papers)
	assert.Len(t, all, 2)
	assert.Contains(t, all, int64(1))
	assert.Contains(t, all, int64(2))
}
