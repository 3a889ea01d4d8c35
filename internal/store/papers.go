package store

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// InsertPapers inserts papers not yet known to the store and returns
// internal ids in input order. A row that collides on the
// (source, source_id) unique key is looked up by that key instead of
// failing the batch (§4.3).
func (s *Store) InsertPapers(ctx context.Context, papers []models.Paper) ([]int64, error) {
	ids := make([]int64, len(papers))

	err := s.WithTx(ctx, func(tx *gorm.DB) error {
		for i, p := range papers {
			id, err := insertOrLookupPaper(tx, p)
			if err != nil {
				return fmt.Errorf("insert paper %d (%s:%s): %w", i, p.Source, p.SourceID, err)
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

func insertOrLookupPaper(tx *gorm.DB, p models.Paper) (int64, error) {
	result := tx.Exec(`
		INSERT INTO papers (source, source_id, doi, arxiv_id, title, abstract, year, venue, url, citation_count, influence_score, keywords_json, concepts_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(source, source_id) DO NOTHING`,
		p.Source, p.SourceID, p.DOI, p.ArxivID, p.Title, p.Abstract, p.Year, p.Venue, p.URL, p.CitationCount, p.KeywordsJSON, p.ConceptsJSON)
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		var id int64
		if err := tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	var id int64
	if err := tx.Raw(`SELECT id FROM papers WHERE source = ? AND source_id = ?`, p.Source, p.SourceID).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertPaper inserts p, or merges it into the existing row on a
// (source, source_id) collision: field-wise COALESCE keeps the
// existing value when the incoming one is null (except title, which
// is always replaced), and citation_count takes the max of the two
// (§4.3, mirroring models.Paper.Merge's in-memory rule).
func (s *Store) UpsertPaper(ctx context.Context, p models.Paper) (int64, error) {
	var id int64
	err := s.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Exec(`
			INSERT INTO papers (source, source_id, doi, arxiv_id, title, abstract, year, venue, url, citation_count, influence_score, keywords_json, concepts_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
			ON CONFLICT(source, source_id) DO UPDATE SET
				title = excluded.title,
				doi = COALESCE(excluded.doi, papers.doi),
				arxiv_id = COALESCE(excluded.arxiv_id, papers.arxiv_id),
				abstract = COALESCE(excluded.abstract, papers.abstract),
				year = COALESCE(excluded.year, papers.year),
				venue = COALESCE(excluded.venue, papers.venue),
				url = COALESCE(excluded.url, papers.url),
				keywords_json = COALESCE(excluded.keywords_json, papers.keywords_json),
				concepts_json = COALESCE(excluded.concepts_json, papers.concepts_json),
				citation_count = MAX(papers.citation_count, excluded.citation_count)`,
			p.Source, p.SourceID, p.DOI, p.ArxivID, p.Title, p.Abstract, p.Year, p.Venue, p.URL, p.CitationCount, p.KeywordsJSON, p.ConceptsJSON)
		if result.Error != nil {
			return result.Error
		}
		return tx.Raw(`SELECT id FROM papers WHERE source = ? AND source_id = ?`, p.Source, p.SourceID).Row().Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetPaper loads one paper by internal id.
func (s *Store) GetPaper(ctx context.Context, id int64) (*models.Paper, error) {
	row := s.db.WithContext(ctx).Raw(`
		SELECT id, source, source_id, doi, arxiv_id, title, abstract, year, venue, url, citation_count, influence_score, keywords_json, concepts_json
		FROM papers WHERE id = ?`, id).Row()

	p, err := scanPaper(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListPapers returns every paper in the store, ordered by id.
func (s *Store) ListPapers(ctx context.Context) ([]models.Paper, error) {
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT id, source, source_id, doi, arxiv_id, title, abstract, year, venue, url, citation_count, influence_score, keywords_json, concepts_json
		FROM papers ORDER BY id`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []models.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows so scanPaper works for both.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(row scanner) (*models.Paper, error) {
	var p models.Paper
	if err := row.Scan(&p.ID, &p.Source, &p.SourceID, &p.DOI, &p.ArxivID, &p.Title, &p.Abstract,
		&p.Year, &p.Venue, &p.URL, &p.CitationCount, &p.InfluenceScore, &p.KeywordsJSON, &p.ConceptsJSON); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPaperByNaturalKey looks up a paper by (source, source_id), the
// lookup the BFS traversal needs before deciding whether a reference
// is already known or must be inserted and queued for expansion
// (§4.11 step 3). Returns (nil, nil) when no row matches.
func (s *Store) GetPaperByNaturalKey(ctx context.Context, source, sourceID string) (*models.Paper, error) {
	row := s.db.WithContext(ctx).Raw(`
		SELECT id, source, source_id, doi, arxiv_id, title, abstract, year, venue, url, citation_count, influence_score, keywords_json, concepts_json
		FROM papers WHERE source = ? AND source_id = ?`, source, sourceID).Row()

	p, err := scanPaper(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// UpdatePaperScore overwrites influence_score for a single paper
// (§4.3's "score update").
func (s *Store) UpdatePaperScore(ctx context.Context, paperID int64, score float64) error {
	return s.db.WithContext(ctx).Exec(`UPDATE papers SET influence_score = ? WHERE id = ?`, score, paperID).Error
}
