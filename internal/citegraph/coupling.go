package citegraph

import (
	"encoding/json"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

type couplingProvenance struct {
	Overlap    int `json:"overlap"`
	RefCountA  int `json:"ref_count_a"`
	RefCountB  int `json:"ref_count_b"`
}

// BibliographicCoupling computes, for every unordered pair of citing
// papers with non-empty reference sets, the size of their reference
// overlap and emits one BIB_COUPLED edge weighted by
// overlap / min(|R_A|, |R_B|) when the overlap is positive (§4.7).
func BibliographicCoupling(citesEdges []models.Edge) []models.Edge {
	refSetByCiter, citers := groupByCiterSet(citesEdges)

	var edges []models.Edge
	for i := 0; i < len(citers); i++ {
		refsA := refSetByCiter[citers[i]]
		if len(refsA) == 0 {
			continue
		}
		for j := i + 1; j < len(citers); j++ {
			refsB := refSetByCiter[citers[j]]
			if len(refsB) == 0 {
				continue
			}

			overlap := intersectionSize(refsA, refsB)
			if overlap == 0 {
				continue
			}

			minLen := len(refsA)
			if len(refsB) < minLen {
				minLen = len(refsB)
			}
			weight := float64(overlap) / float64(minLen)

			a, b := models.PairKey(citers[i], citers[j])
			provJSON, _ := json.Marshal(couplingProvenance{
				Overlap:   overlap,
				RefCountA: len(refsA),
				RefCountB: len(refsB),
			})

			edges = append(edges, models.Edge{
				Src:            a,
				Dst:            b,
				Type:           models.EdgeBibCoupled,
				Weight:         weight,
				Confidence:     1.0,
				CreatedBy:      models.CreatedByAlgo,
				ProvenanceJSON: string(provJSON),
			})
		}
	}
	return edges
}

func groupByCiterSet(citesEdges []models.Edge) (map[int64]map[int64]bool, []int64) {
	refsByCiter, citers := groupByCiter(citesEdges)
	sets := make(map[int64]map[int64]bool, len(refsByCiter))
	for citer, refs := range refsByCiter {
		set := make(map[int64]bool, len(refs))
		for _, r := range refs {
			set[r] = true
		}
		sets[citer] = set
	}
	return sets, citers
}

func intersectionSize(a, b map[int64]bool) int {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	count := 0
	for ref := range small {
		if large[ref] {
			count++
		}
	}
	return count
}
