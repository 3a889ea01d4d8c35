package models

// Cluster is a group of papers produced by community detection (§3,
// §4.8), tagged with the method that produced it (e.g.
// "louvain_citation").
type Cluster struct {
	ID          int64   `json:"id"`
	Method      string  `json:"method"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	// StatsJSON records member count and the underlying community id
	// assigned by the clustering algorithm.
	StatsJSON string `json:"stats_json"`
}

// ClusterMember is one row of the paper_clusters junction table.
type ClusterMember struct {
	ClusterID int64 `json:"cluster_id"`
	PaperID   int64 `json:"paper_id"`
}
