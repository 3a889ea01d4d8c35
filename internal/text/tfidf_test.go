package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("!!! ... ???"))
}

func TestTokenizeDropsStopwordsAndNumbers(t *testing.T) {
	tokens := Tokenize("The Paper Proposes a Method for 2023 Results")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "paper")
	assert.NotContains(t, tokens, "proposes")
	assert.NotContains(t, tokens, "method")
	assert.NotContains(t, tokens, "2023")
	assert.NotContains(t, tokens, "results")
}

func TestTokenizeTrimsHyphensAndSingleChars(t *testing.T) {
	tokens := Tokenize("-speech- a b cross-lingual")
	assert.Contains(t, tokens, "speech")
	assert.Contains(t, tokens, "cross-lingual")
	assert.NotContains(t, tokens, "a")
	assert.NotContains(t, tokens, "b")
}

func TestBuildCorpusDeterministic(t *testing.T) {
	docs := []Document{
		{SourceID: "p1", Text: "Deep Learning for Speech Recognition Neural networks improve speech recognition accuracy"},
		{SourceID: "p2", Text: "Speech Enhancement Using Transformers Transformer architecture enhances speech quality"},
		{SourceID: "p3", Text: "Image Classification with CNNs Convolutional networks for image recognition tasks"},
	}

	c1 := BuildCorpus(docs)
	c2 := BuildCorpus(docs)

	require.Equal(t, c1.N, c2.N)
	for id, vec := range c1.Vectors {
		other, ok := c2.Vectors[id]
		require.True(t, ok)
		for term, w := range vec {
			assert.InDelta(t, w, other[term], 1e-12)
		}
	}

	top := c1.TopTerms([]string{"p1", "p2"}, 5)
	assert.Contains(t, top, "speech")
}

func TestTFIDFSingleDocumentZeroWeight(t *testing.T) {
	docs := []Document{{SourceID: "only", Text: "graph neural network"}}
	c := BuildCorpus(docs)

	for _, w := range c.Vectors["only"] {
		assert.InDelta(t, 0.0, w, 1e-12)
	}
	assert.Empty(t, c.TopTerms([]string{"only"}, 5))
}

func TestRelevanceBounded(t *testing.T) {
	docs := []Document{
		{SourceID: "p1", Text: "graph neural network embeddings"},
		{SourceID: "p2", Text: "database transaction isolation level"},
	}
	c := BuildCorpus(docs)

	rel := c.Relevance("p1", Tokenize("graph neural network embeddings graph neural network embeddings"))
	assert.GreaterOrEqual(t, rel, 0.0)
	assert.LessOrEqual(t, rel, 1.0)

	assert.Equal(t, 0.0, c.Relevance("p1", nil))
	assert.Equal(t, 0.0, c.Relevance("unknown", Tokenize("graph")))
}
