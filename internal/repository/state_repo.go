// Package repository implements the persisted key-value store the ledger
// serializes its collections into. One row per key in the app_state table,
// full-value overwrite on every write.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// StateRepository handles app_state database operations.
type StateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStateRepository creates a new state repository.
func NewStateRepository(db *sql.DB, logger *zap.Logger) *StateRepository {
	return &StateRepository{
		db:     db,
		logger: logger,
	}
}

// Get returns the value stored under key. The second return value is false
// when the key has never been written.
func (r *StateRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to read state", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to read state %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key.
func (r *StateRepository) Set(key, value string) error {
	query := `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		r.logger.Error("Failed to write state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (r *StateRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM app_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}
