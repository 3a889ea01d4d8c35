package graphalgo

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

const louvainResolution = 1.0

// Louvain projects every persisted edge (not only CITES) onto an
// undirected weighted graph — each directed pair (u,v)/(v,u) merged
// into one undirected edge whose weight is the sum of the directed
// weights, self-loops disallowed — then runs gonum's modularity
// community detection (§4.8). seed drives a deterministic RNG so two
// runs over identical input produce identical communities; it must
// never be derived from wall-clock time (§4.11's determinism
// contract). Returns community index → member paper ids, each
// community's members sorted ascending for determinism.
func Louvain(paperIDs []int64, allEdges []models.Edge, seed int64) map[int][]int64 {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	for _, id := range paperIDs {
		g.AddNode(simple.Node(id))
	}

	weights := make(map[[2]int64]float64)
	for _, e := range allEdges {
		if e.Src == e.Dst {
			continue
		}
		if !g.HasNode(e.Src) || !g.HasNode(e.Dst) {
			continue
		}
		a, b := e.Src, e.Dst
		if a > b {
			a, b = b, a
		}
		weights[[2]int64{a, b}] += e.Weight
	}

	for pair, w := range weights {
		if w <= 0 {
			continue
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(pair[0]), T: simple.Node(pair[1]), W: w})
	}

	if g.Nodes().Len() == 0 {
		return nil
	}

	reduced := community.Modularize(g, louvainResolution, rand.NewSource(seed))
	communities := reduced.Communities()

	result := make(map[int][]int64, len(communities))
	for i, members := range communities {
		ids := make([]int64, 0, len(members))
		for _, n := range members {
			ids = append(ids, n.ID())
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		result[i] = ids
	}
	return result
}
