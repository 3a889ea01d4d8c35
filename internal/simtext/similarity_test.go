package simtext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

func TestCosineSelfSimilarityIsOne(t *testing.T) {
	v := map[string]float64{"a": 0.5, "b": 0.25}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosineZeroNormIsZero(t *testing.T) {
	v := map[string]float64{"a": 1.0}
	zero := map[string]float64{}
	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, v))
}

func TestBuildEdgesProducesRelatedPairOnly(t *testing.T) {
	corpus := text.BuildCorpus([]text.Document{
		{SourceID: "related-1", Text: "deep learning neural network speech recognition transformer"},
		{SourceID: "related-2", Text: "deep learning neural network speech recognition transformer model"},
		{SourceID: "unrelated", Text: "database transaction isolation concurrency control locking"},
	})

	sourceToPaperID := map[string]int64{
		"related-1": 1,
		"related-2": 2,
		"unrelated":  3,
	}

	edges := BuildEdges(corpus, sourceToPaperID, 5, 0.1)

	foundRelated := false
	for _, e := range edges {
		assert.Less(t, e.Src, e.Dst)
		assert.GreaterOrEqual(t, e.Weight, 0.1)
		assert.Equal(t, models.EdgeSimilarText, e.Type)
		if (e.Src == 1 && e.Dst == 2) || (e.Src == 2 && e.Dst == 1) {
			foundRelated = true
		}
		assert.False(t, (e.Src == 1 && e.Dst == 3) || (e.Src == 3 && e.Dst == 1))
		assert.False(t, (e.Src == 2 && e.Dst == 3) || (e.Src == 3 && e.Dst == 2))
	}
	assert.True(t, foundRelated)
}
