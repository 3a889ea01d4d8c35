package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

// UpsertEntity inserts e if its (type, lowercased name) is new, else
// returns the existing row's id.
func (s *Store) UpsertEntity(ctx context.Context, e models.Entity) (int64, error) {
	var id int64

	err := s.WithTx(ctx, func(tx *gorm.DB) error {
		row := tx.Raw(`SELECT id FROM entities WHERE type = ? AND lower(name) = lower(?)`, e.Type, e.Name).Row()
		if err := row.Scan(&id); err == nil {
			return nil
		}

		aliasesJSON, err := json.Marshal(e.Aliases)
		if err != nil {
			return err
		}

		result := tx.Exec(`INSERT INTO entities (type, name, aliases_json) VALUES (?, ?, ?)`, e.Type, e.Name, string(aliasesJSON))
		if result.Error != nil {
			return result.Error
		}
		return tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LinkPaperEntity inserts a paper_entities row, ignoring a duplicate
// (paper_id, entity_id, role) triple.
func (s *Store) LinkPaperEntity(ctx context.Context, link models.EntityLink) error {
	return s.db.WithContext(ctx).Exec(`
		INSERT INTO paper_entities (paper_id, entity_id, role) VALUES (?, ?, ?)
		ON CONFLICT(paper_id, entity_id, role) DO NOTHING`,
		link.PaperID, link.EntityID, link.Role).Error
}

// InsertEntityBatch persists a batch extractor's merged output —
// entity rows (deduplicated by the extractor, by (type, lowercased
// name)) plus the paper-entity links referencing them — in a single
// transaction (§4.10: "a list of entity rows plus paper-entity links
// suitable for a single transactional insert"). links reference
// entities by their position in entities (an index into the slice),
// not by a pre-assigned id, since the extractor does not know ids
// until the store has resolved or inserted each entity.
func (s *Store) InsertEntityBatch(ctx context.Context, entities []models.Entity, links []EntityLinkByIndex) error {
	return s.WithTx(ctx, func(tx *gorm.DB) error {
		resolvedIDs := make([]int64, len(entities))
		for i, e := range entities {
			id, err := upsertEntityTx(tx, e)
			if err != nil {
				return fmt.Errorf("upsert entity %d (%s:%s): %w", i, e.Type, e.Name, err)
			}
			resolvedIDs[i] = id
		}

		for _, link := range links {
			entityID := resolvedIDs[link.EntityIndex]
			if err := tx.Exec(`
				INSERT INTO paper_entities (paper_id, entity_id, role) VALUES (?, ?, ?)
				ON CONFLICT(paper_id, entity_id, role) DO NOTHING`,
				link.PaperID, entityID, link.Role).Error; err != nil {
				return fmt.Errorf("link paper %d to entity %d: %w", link.PaperID, entityID, err)
			}
		}
		return nil
	})
}

// EntityLinkByIndex is one paper-entity link from a batch extraction,
// addressing its entity by its position in the accompanying entities
// slice rather than by a store-assigned id (see InsertEntityBatch).
type EntityLinkByIndex struct {
	PaperID     int64
	EntityIndex int
	Role        models.EntityRole
}

func upsertEntityTx(tx *gorm.DB, e models.Entity) (int64, error) {
	var id int64
	row := tx.Raw(`SELECT id FROM entities WHERE type = ? AND lower(name) = lower(?)`, e.Type, e.Name).Row()
	if err := row.Scan(&id); err == nil {
		return id, nil
	}

	aliasesJSON, err := json.Marshal(e.Aliases)
	if err != nil {
		return 0, err
	}

	result := tx.Exec(`INSERT INTO entities (type, name, aliases_json) VALUES (?, ?, ?)`, e.Type, e.Name, string(aliasesJSON))
	if result.Error != nil {
		return 0, result.Error
	}
	if err := tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
