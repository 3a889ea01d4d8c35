package store

import "context"

// Stats is a snapshot of store occupancy, backing §4.3's statistics
// query and the run record's stats_json column.
type Stats struct {
	PaperCount   int64            `json:"paper_count"`
	EdgeCount    int64            `json:"edge_count"`
	ClusterCount int64            `json:"cluster_count"`
	EntityCount  int64            `json:"entity_count"`
	RunCount     int64            `json:"run_count"`
	EdgesByType  map[string]int64 `json:"edges_by_type"`
}

// Stats returns paper/edge/cluster/entity/run counts and a mapping
// from edge type to count, in a single call (§4.3).
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	var stats Stats

	if err := db.Raw(`SELECT COUNT(*) FROM papers`).Row().Scan(&stats.PaperCount); err != nil {
		return Stats{}, err
	}
	if err := db.Raw(`SELECT COUNT(*) FROM edges`).Row().Scan(&stats.EdgeCount); err != nil {
		return Stats{}, err
	}
	if err := db.Raw(`SELECT COUNT(*) FROM clusters`).Row().Scan(&stats.ClusterCount); err != nil {
		return Stats{}, err
	}
	if err := db.Raw(`SELECT COUNT(*) FROM entities`).Row().Scan(&stats.EntityCount); err != nil {
		return Stats{}, err
	}
	if err := db.Raw(`SELECT COUNT(*) FROM runs`).Row().Scan(&stats.RunCount); err != nil {
		return Stats{}, err
	}

	rows, err := db.Raw(`SELECT type, COUNT(*) FROM edges GROUP BY type`).Rows()
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	stats.EdgesByType = make(map[string]int64)
	for rows.Next() {
		var edgeType string
		var count int64
		if err := rows.Scan(&edgeType, &count); err != nil {
			return Stats{}, err
		}
		stats.EdgesByType[edgeType] = count
	}

	return stats, rows.Err()
}
