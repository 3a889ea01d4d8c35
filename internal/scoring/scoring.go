// Package scoring computes the composite relevance score the
// inspect/report surfaces show alongside each paper (§4.9). It is a
// read-only projection over numbers the algorithms stage already
// produced — PageRank, the TF-IDF corpus, and publication year — and
// never writes back to the stored InfluenceScore, which stays raw
// normalized PageRank.
package scoring

import (
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/config"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

// pagerankFloor is the lower bound on the maximum PageRank used as the
// pagerank term's denominator, so an all-zero PageRank map gives a zero
// term instead of a division by zero (§4.9).
const pagerankFloor = 1e-3

// Weights holds the three composite-score weights; callers normally
// source these from config.RankingConfig, already validated to sum to
// 1.0 by Config.Validate.
type Weights struct {
	Pagerank  float64
	Relevance float64
	Recency   float64
}

// WeightsFromConfig adapts the validated ranking section of a loaded
// Config into Weights.
func WeightsFromConfig(r config.RankingConfig) Weights {
	return Weights{
		Pagerank:  r.PagerankWeight,
		Relevance: r.RelevanceWeight,
		Recency:   r.RecencyWeight,
	}
}

// Scorer computes composite scores for a fixed set of papers sharing
// one PageRank run, one corpus, and one topic query (§4.9).
type Scorer struct {
	weights     Weights
	pagerank    map[int64]float64
	maxPagerank float64
	corpus      *text.Corpus
	queryTokens []string
	yearMin     int
	currentYear int
}

// NewScorer precomputes the normalization constants every Score call
// needs: the maximum observed PageRank (for the pagerank term) and
// the minimum publication year across papers with a plausible year
// (for the recency term). Papers with no year, or a year of 1900 or
// earlier, are excluded from the yearMin computation; when no paper
// has a plausible year, yearMin falls back to currentYear, so a paper
// with no year gets a recency term of 0 (§4.9).
func NewScorer(papers []models.Paper, pagerank map[int64]float64, corpus *text.Corpus, topic string, currentYear int, weights Weights) *Scorer {
	maxPR := 0.0
	for _, pr := range pagerank {
		if pr > maxPR {
			maxPR = pr
		}
	}

	yearMin := currentYear
	found := false
	for _, p := range papers {
		if p.Year == nil || *p.Year <= 1900 {
			continue
		}
		if !found || *p.Year < yearMin {
			yearMin = *p.Year
			found = true
		}
	}
	if !found {
		yearMin = currentYear
	}

	return &Scorer{
		weights:     weights,
		pagerank:    pagerank,
		maxPagerank: maxPR,
		corpus:      corpus,
		queryTokens: text.Tokenize(topic),
		yearMin:     yearMin,
		currentYear: currentYear,
	}
}

// Score computes min(1, pr'*w_p + rel*w_r + rec*w_y) for one paper
// (§4.9):
//   - pr' is this paper's PageRank divided by the run's maximum
//     PageRank, with that maximum floored at pagerankFloor so an
//     all-zero PageRank map never divides by zero.
//   - rel is the corpus relevance of the paper's source id against
//     the tokenized topic, or 0 when the topic is empty.
//   - rec is (year-yearMin)/max(1, currentYear-yearMin), with a nil
//     year treated as currentYear.
func (s *Scorer) Score(p models.Paper) float64 {
	denom := s.maxPagerank
	if denom < pagerankFloor {
		denom = pagerankFloor
	}
	prTerm := s.pagerank[p.ID] / denom

	relTerm := 0.0
	if len(s.queryTokens) > 0 && s.corpus != nil {
		relTerm = s.corpus.Relevance(p.SourceID, s.queryTokens)
	}

	year := p.YearOrCurrent(s.currentYear)
	recencyDenom := s.currentYear - s.yearMin
	if recencyDenom < 1 {
		recencyDenom = 1
	}
	recTerm := float64(year-s.yearMin) / float64(recencyDenom)

	composite := prTerm*s.weights.Pagerank + relTerm*s.weights.Relevance + recTerm*s.weights.Recency
	if composite > 1 {
		composite = 1
	}
	if composite < 0 {
		composite = 0
	}
	return composite
}

// ScoreAll computes Score for every paper, keyed by paper id.
func (s *Scorer) ScoreAll(papers []models.Paper) map[int64]float64 {
	out := make(map[int64]float64, len(papers))
	for _, p := range papers {
		out[p.ID] = s.Score(p)
	}
	return out
}
