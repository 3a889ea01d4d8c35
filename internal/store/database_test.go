package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO papers (source, source_id, title, citation_count, influence_score)
			VALUES ('openalex', 'tx-1', 'T', 0, 0)`).Error
	})
	require.NoError(t, err)

	papers, err := st.ListPapers(ctx)
	require.NoError(t, err)
	assert.Len(t, papers, 1)
}

func TestWithTxRollsBackAndSurfacesErrorOnFailure(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *gorm.DB) error {
		if tx.Exec(`INSERT INTO papers (source, source_id, title, citation_count, influence_score)
			VALUES ('openalex', 'tx-2', 'T', 0, 0)`).Error != nil {
			return errors.New("unexpected insert failure")
		}
		return errors.New("no such table: nonexistent")
	})
	require.Error(t, err)

	papers, listErr := st.ListPapers(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, papers, "a failed transaction must not leave a partial insert committed")
}
