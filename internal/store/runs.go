package store

import (
	"context"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// InsertRun records one build invocation (§4.11's final step).
func (s *Store) InsertRun(ctx context.Context, run models.Run) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`
		INSERT INTO runs (run_uuid, started_at, tool_version, config_json, source, spine, depth, stats_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UUID, run.StartedAt, run.ToolVersion, run.ConfigJSON, run.Source, run.Spine, run.Depth, run.StatsJSON)
	if result.Error != nil {
		return 0, result.Error
	}

	var id int64
	if err := s.db.WithContext(ctx).Raw(`SELECT last_insert_rowid()`).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
