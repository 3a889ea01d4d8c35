// Package graphalgo runs the two global graph algorithms the build
// orchestrator needs after traversal: PageRank over the directed
// citation graph and Louvain community detection over an undirected
// projection of every persisted edge (§4.8). Grounded on the
// beads_viewer/beadwork analysis packages, both of which drive
// gonum's graph/simple + graph/network + graph/community stack with
// the exact damping/tolerance pair this spec calls for.
package graphalgo

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// PageRank builds a directed graph from the deduplicated CITES edge
// set over every known paper id and runs gonum's PageRank with
// damping 0.85 and tolerance 1e-6 (§4.8). Papers with no incident
// CITES edge still appear in the graph and receive the positive
// teleportation baseline network.PageRank assigns every node.
func PageRank(paperIDs []int64, citesEdges []models.Edge) map[int64]float64 {
	g := simple.NewDirectedGraph()
	for _, id := range paperIDs {
		g.AddNode(simple.Node(id))
	}

	seen := make(map[[2]int64]bool)
	for _, e := range citesEdges {
		if e.Src == e.Dst {
			continue
		}
		if !g.HasNode(e.Src) || !g.HasNode(e.Dst) {
			continue
		}
		key := [2]int64{e.Src, e.Dst}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.SetEdge(simple.Edge{F: simple.Node(e.Src), T: simple.Node(e.Dst)})
	}

	return network.PageRank(g, pageRankDamping, pageRankTolerance)
}
