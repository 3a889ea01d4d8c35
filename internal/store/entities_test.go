package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

func TestUpsertEntityIsIdempotentCaseInsensitively(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id1, err := st.UpsertEntity(ctx, models.Entity{Type: models.EntityDataset, Name: "ImageNet"})
	require.NoError(t, err)

	id2, err := st.UpsertEntity(ctx, models.Entity{Type: models.EntityDataset, Name: "imagenet"})
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "dedup key is (type, lowercased name)")
}

func TestInsertEntityBatchResolvesIndicesAndDedupsLinks(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids := insertTestPapers(t, st, 2)

	entities := []models.Entity{
		{Type: models.EntityDataset, Name: "ImageNet"},
		{Type: models.EntityMethod, Name: "Transformer"},
	}
	links := []EntityLinkByIndex{
		{PaperID: ids[0], EntityIndex: 0, Role: models.RoleUses},
		{PaperID: ids[1], EntityIndex: 0, Role: models.RoleUses},
		{PaperID: ids[0], EntityIndex: 1, Role: models.RoleApplies},
	}

	require.NoError(t, st.InsertEntityBatch(ctx, entities, links))

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.EntityCount)

	// Re-running the same batch must not duplicate entities or links.
	require.NoError(t, st.InsertEntityBatch(ctx, entities, links))
	stats, err = st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.EntityCount)
}

func TestLinkPaperEntityIgnoresDuplicateTriple(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids := insertTestPapers(t, st, 1)
	entityID, err := st.UpsertEntity(ctx, models.Entity{Type: models.EntityTask, Name: "classification"})
	require.NoError(t, err)

	link := models.EntityLink{PaperID: ids[0], EntityID: entityID, Role: models.RoleEvaluates}
	require.NoError(t, st.LinkPaperEntity(ctx, link))
	require.NoError(t, st.LinkPaperEntity(ctx, link))
}
