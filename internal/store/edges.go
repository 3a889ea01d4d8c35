package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// InsertEdges inserts edges in a single transaction, returning their
// assigned ids in input order.
func (s *Store) InsertEdges(ctx context.Context, edges []models.Edge) ([]int64, error) {
	ids := make([]int64, len(edges))

	err := s.WithTx(ctx, func(tx *gorm.DB) error {
		for i, e := range edges {
			result := tx.Exec(`
				INSERT INTO edges (src, dst, type, weight, confidence, rationale, evidence, created_by, provenance_json)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				e.Src, e.Dst, e.Type, e.Weight, e.Confidence, e.Rationale, e.Evidence, e.CreatedBy, e.ProvenanceJSON)
			if result.Error != nil {
				return result.Error
			}
			var id int64
			if err := tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id); err != nil {
				return err
			}
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListEdgesByType returns every edge of the given type, ordered by id.
func (s *Store) ListEdgesByType(ctx context.Context, edgeType models.EdgeType) ([]models.Edge, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT id, src, dst, type, weight, confidence, rationale, evidence, created_by, provenance_json
		FROM edges WHERE type = ? ORDER BY id`, edgeType).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []models.Edge
	for rows.Next() {
		var e models.Edge
		if err := rows.Scan(&e.ID, &e.Src, &e.Dst, &e.Type, &e.Weight, &e.Confidence,
			&e.Rationale, &e.Evidence, &e.CreatedBy, &e.ProvenanceJSON); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ListEdges returns every persisted edge, ordered by id.
func (s *Store) ListEdges(ctx context.Context) ([]models.Edge, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT id, src, dst, type, weight, confidence, rationale, evidence, created_by, provenance_json
		FROM edges ORDER BY id`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []models.Edge
	for rows.Next() {
		var e models.Edge
		if err := rows.Scan(&e.ID, &e.Src, &e.Dst, &e.Type, &e.Weight, &e.Confidence,
			&e.Rationale, &e.Evidence, &e.CreatedBy, &e.ProvenanceJSON); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
