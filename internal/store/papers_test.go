package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papergraph-test.db")
	st, err := Open(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strPtr(s string) *string { return &s }

func TestInsertPapersIsIdempotentOnNaturalKey(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p := models.Paper{Source: "openalex", SourceID: "W1", Title: "First"}

	ids1, err := st.InsertPapers(ctx, []models.Paper{p})
	require.NoError(t, err)
	require.Len(t, ids1, 1)

	ids2, err := st.InsertPapers(ctx, []models.Paper{p})
	require.NoError(t, err)
	assert.Equal(t, ids1[0], ids2[0], "re-inserting the same natural key must return the existing id, not a new row")

	papers, err := st.ListPapers(ctx)
	require.NoError(t, err)
	assert.Len(t, papers, 1)
}

func TestGetPaperByNaturalKeyReturnsNilWhenMissing(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	got, err := st.GetPaperByNaturalKey(ctx, "openalex", "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetPaperByNaturalKeyFindsInsertedPaper(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids, err := st.InsertPapers(ctx, []models.Paper{{Source: "s2", SourceID: "abc", Title: "A Paper"}})
	require.NoError(t, err)

	got, err := st.GetPaperByNaturalKey(ctx, "s2", "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ids[0], got.ID)
	assert.Equal(t, "A Paper", got.Title)
}

func TestUpsertPaperMergesFieldsAndTakesMaxCitationCount(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id1, err := st.UpsertPaper(ctx, models.Paper{
		Source: "openalex", SourceID: "W9", Title: "Original Title",
		Abstract: strPtr("original abstract"), CitationCount: 5,
	})
	require.NoError(t, err)

	id2, err := st.UpsertPaper(ctx, models.Paper{
		Source: "openalex", SourceID: "W9", Title: "Updated Title",
		CitationCount: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, err := st.GetPaper(ctx, id1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Updated Title", got.Title, "title is always replaced")
	require.NotNil(t, got.Abstract)
	assert.Equal(t, "original abstract", *got.Abstract, "nil incoming abstract must not clobber the existing one")
	assert.Equal(t, 5, got.CitationCount, "citation count takes the max of old and new")
}

func TestUpdatePaperScoreOverwritesInfluenceScore(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ids, err := st.InsertPapers(ctx, []models.Paper{{Source: "openalex", SourceID: "W2", Title: "T"}})
	require.NoError(t, err)

	require.NoError(t, st.UpdatePaperScore(ctx, ids[0], 0.42))

	got, err := st.GetPaper(ctx, ids[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.42, got.InfluenceScore, 1e-9)
}
