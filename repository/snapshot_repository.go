package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"guildconsole/database"
	"guildconsole/domain/state"
)

// SnapshotRepository stores the serialized local store in dashboard_snapshots
type SnapshotRepository struct {
	q   Queryable
	key string
}

// NewSnapshotRepository creates a snapshot repository for the default storage key
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{q: db.Pool, key: state.SnapshotKey}
}

// NewSnapshotRepositoryWithKey creates a snapshot repository for a custom storage key
func NewSnapshotRepositoryWithKey(q Queryable, key string) *SnapshotRepository {
	return &SnapshotRepository{q: q, key: key}
}

// Load returns the stored snapshot, or nil when none exists
func (r *SnapshotRepository) Load(ctx context.Context) ([]byte, error) {
	query := `SELECT payload FROM dashboard_snapshots WHERE storage_key = $1`

	var payload []byte
	err := r.q.QueryRow(ctx, query, r.key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", r.key, err)
	}
	return payload, nil
}

// Store replaces the stored snapshot
func (r *SnapshotRepository) Store(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO dashboard_snapshots (storage_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", r.key, err)
	}
	return nil
}
