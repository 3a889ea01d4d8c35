// Package simtext builds SIMILAR_TEXT edges from a TF-IDF corpus:
// cosine similarity over sparse document vectors, top-K neighbor
// selection above a threshold (§4.6). Grounded on the pairwise
// graph-building shape used by the beads_viewer/beadwork analysis
// packages, adapted from dependency graphs to TF-IDF document
// vectors; the cosine itself is plain arithmetic over sparse maps, a
// concern no vector-math library in the pack fits better than direct
// iteration.
package simtext

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/text"
)

// Cosine computes the cosine similarity of two sparse weight vectors,
// 0 when either norm is zero (§4.6, §8).
func Cosine(u, v map[string]float64) float64 {
	if len(u) == 0 || len(v) == 0 {
		return 0
	}

	small, large := u, v
	if len(v) < len(u) {
		small, large = v, u
	}

	dot := 0.0
	for term, w := range small {
		if lw, ok := large[term]; ok {
			dot += w * lw
		}
	}

	normU := norm(u)
	normV := norm(v)
	if normU == 0 || normV == 0 {
		return 0
	}
	return dot / (normU * normV)
}

func norm(v map[string]float64) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

const (
	algorithmName    = "cosine_tfidf"
	algorithmVersion = 1
)

type provenance struct {
	Algorithm string  `json:"algorithm"`
	Version   int     `json:"version"`
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}

// BuildEdges computes, for every document in corpus, the top-K
// neighbors with cosine similarity at or above threshold, and emits
// one SIMILAR_TEXT edge per unordered pair (§4.6). sourceToPaperID
// resolves a document's corpus key (source_id) to the internal paper
// id the edge must reference; documents with no such mapping are
// skipped. Iteration is over sorted source ids so the emitted edge
// order is deterministic regardless of map iteration order.
func BuildEdges(corpus *text.Corpus, sourceToPaperID map[string]int64, topK int, threshold float64) []models.Edge {
	docIDs := make([]string, 0, len(corpus.Vectors))
	for id := range corpus.Vectors {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	type neighbor struct {
		sourceID string
		sim      float64
	}

	provJSON, _ := json.Marshal(provenance{
		Algorithm: algorithmName,
		Version:   algorithmVersion,
		TopK:      topK,
		Threshold: threshold,
	})
	prov := string(provJSON)

	seenPairs := make(map[[2]int64]bool)
	var edges []models.Edge

	for _, d := range docIDs {
		paperID, ok := sourceToPaperID[d]
		if !ok {
			continue
		}

		var neighbors []neighbor
		for _, other := range docIDs {
			if other == d {
				continue
			}
			sim := Cosine(corpus.Vectors[d], corpus.Vectors[other])
			if sim >= threshold {
				neighbors = append(neighbors, neighbor{sourceID: other, sim: sim})
			}
		}

		sort.SliceStable(neighbors, func(i, j int) bool {
			return neighbors[i].sim > neighbors[j].sim
		})
		if topK >= 0 && len(neighbors) > topK {
			neighbors = neighbors[:topK]
		}

		for _, nb := range neighbors {
			otherID, ok := sourceToPaperID[nb.sourceID]
			if !ok || otherID == paperID {
				continue
			}

			a, b := models.PairKey(paperID, otherID)
			key := [2]int64{a, b}
			if seenPairs[key] {
				continue
			}
			seenPairs[key] = true

			edges = append(edges, models.Edge{
				Src:            a,
				Dst:            b,
				Type:           models.EdgeSimilarText,
				Weight:         nb.sim,
				Confidence:     nb.sim,
				CreatedBy:      models.CreatedByAlgo,
				ProvenanceJSON: prov,
			})
		}
	}

	return edges
}
