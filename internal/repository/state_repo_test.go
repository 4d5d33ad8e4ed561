package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/pkg/database"
)

func newTestRepo(t *testing.T) *StateRepository {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "state.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	require.NoError(t, err)

	return NewStateRepository(db.DB, logger)
}

func TestStateRepository_GetMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	value, ok, err := repo.Get("never_written")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStateRepository_SetOverwrites(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Set("finance_expenses", `[]`))
	require.NoError(t, repo.Set("finance_expenses", `[{"id":"e-1"}]`))

	value, ok, err := repo.Get("finance_expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"e-1"}]`, value)
}

func TestStateRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Set("finance_budgets", `[]`))
	require.NoError(t, repo.Delete("finance_budgets"))

	_, ok, err := repo.Get("finance_budgets")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is fine.
	assert.NoError(t, repo.Delete("finance_budgets"))
}
