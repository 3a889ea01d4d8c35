package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// InsertCluster inserts the cluster row, captures the generated id,
// then inserts the paper_clusters junction rows for memberIDs (§4.3).
func (s *Store) InsertCluster(ctx context.Context, c models.Cluster, memberIDs []int64) (int64, error) {
	var clusterID int64

	err := s.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Exec(`INSERT INTO clusters (method, name, description, stats_json) VALUES (?, ?, ?, ?)`,
			c.Method, c.Name, c.Description, c.StatsJSON)
		if result.Error != nil {
			return result.Error
		}
		if err := tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&clusterID); err != nil {
			return err
		}

		for _, paperID := range memberIDs {
			if err := tx.Exec(`INSERT INTO paper_clusters (cluster_id, paper_id) VALUES (?, ?)`,
				clusterID, paperID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return clusterID, nil
}
