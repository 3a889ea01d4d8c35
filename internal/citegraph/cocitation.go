// Package citegraph computes the two citation-analytic edge classes
// that operate purely on the persisted CITES edge set: co-citation and
// bibliographic coupling (§4.7). Grounded on the same pairwise
// accumulate-into-a-keyed-map technique the beads_viewer/beadwork
// graph-analysis files use for dependency pairs, here applied to
// citation reference sets instead.
package citegraph

import (
	"encoding/json"
	"sort"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

type coCitationProvenance struct {
	Count int `json:"count"`
}

// CoCitation groups CITES edges by citing paper and, for every
// unordered pair of papers appearing together in one citer's reference
// set, emits a CO_CITED edge weighted by the pair's co-citation count
// normalized against the maximum count observed (§4.7).
func CoCitation(citesEdges []models.Edge) []models.Edge {
	refsByCiter, citers := groupByCiter(citesEdges)

	counts := make(map[[2]int64]int)
	var pairOrder [][2]int64

	for _, citer := range citers {
		refs := append([]int64(nil), refsByCiter[citer]...)
		sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
		refs = dedupSorted(refs)

		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				a, b := models.PairKey(refs[i], refs[j])
				key := [2]int64{a, b}
				if counts[key] == 0 {
					pairOrder = append(pairOrder, key)
				}
				counts[key]++
			}
		}
	}

	if len(counts) == 0 {
		return nil
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	edges := make([]models.Edge, 0, len(pairOrder))
	for _, pair := range pairOrder {
		count := counts[pair]
		weight := float64(count) / float64(maxCount)

		provJSON, _ := json.Marshal(coCitationProvenance{Count: count})
		edges = append(edges, models.Edge{
			Src:            pair[0],
			Dst:            pair[1],
			Type:           models.EdgeCoCited,
			Weight:         weight,
			Confidence:     1.0,
			CreatedBy:      models.CreatedByAlgo,
			ProvenanceJSON: string(provJSON),
		})
	}
	return edges
}

func groupByCiter(citesEdges []models.Edge) (map[int64][]int64, []int64) {
	refsByCiter := make(map[int64][]int64)
	var citers []int64
	for _, e := range citesEdges {
		if _, ok := refsByCiter[e.Src]; !ok {
			citers = append(citers, e.Src)
		}
		refsByCiter[e.Src] = append(refsByCiter[e.Src], e.Dst)
	}
	sort.Slice(citers, func(i, j int) bool { return citers[i] < citers[j] })
	return refsByCiter, citers
}

func dedupSorted(sorted []int64) []int64 {
	out := sorted[:0]
	var last int64
	hasLast := false
	for _, v := range sorted {
		if hasLast && v == last {
			continue
		}
		out = append(out, v)
		last = v
		hasLast = true
	}
	return out
}
