package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"guildconsole/database"
	"guildconsole/domain/sources"
)

// Columns managed by the repository itself; mapper rows never set them
const (
	guildIDColumn   = "guild_id"
	updatedAtColumn = "updated_at"
)

// SettingsSourceRepository reads and upserts the remote settings tables,
// one row per guild keyed by guild_id
type SettingsSourceRepository struct {
	q Queryable
}

// NewSettingsSourceRepository creates a new settings source repository
func NewSettingsSourceRepository(db *database.DB) *SettingsSourceRepository {
	return &SettingsSourceRepository{q: db.Pool}
}

// NewSettingsSourceRepositoryWithTx creates a settings source repository bound to a transaction
func NewSettingsSourceRepositoryWithTx(tx Queryable) *SettingsSourceRepository {
	return &SettingsSourceRepository{q: tx}
}

// ReadOne returns the guild's row without the bookkeeping columns, or nil
// when the guild has no row yet
func (r *SettingsSourceRepository) ReadOne(ctx context.Context, source string, externalID int64) (sources.Row, error) {
	table, err := sourceTable(source)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`, table, guildIDColumn)
	rows, err := r.q.Query(ctx, query, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s for guild %d: %w", source, externalID, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for guild %d: %w", source, externalID, err)
	}

	delete(row, guildIDColumn)
	delete(row, updatedAtColumn)
	return sources.Row(row), nil
}

// UpsertOne creates or replaces the guild's row. Columns are written in
// sorted order so the same row always produces the same statement.
func (r *SettingsSourceRepository) UpsertOne(ctx context.Context, source string, externalID int64, row sources.Row) error {
	table, err := sourceTable(source)
	if err != nil {
		return err
	}

	query, args := buildUpsert(table, externalID, row)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert %s for guild %d: %w", source, externalID, err)
	}
	return nil
}

func sourceTable(source string) (string, error) {
	if _, ok := sources.Lookup(source); !ok {
		return "", fmt.Errorf("%w: %q", sources.ErrUnknownSource, source)
	}
	return pgx.Identifier{source}.Sanitize(), nil
}

func buildUpsert(table string, externalID int64, row sources.Row) (string, []any) {
	columns := make([]string, 0, len(row))
	for column := range row {
		if column == guildIDColumn || column == updatedAtColumn {
			continue
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	names := []string{guildIDColumn}
	placeholders := []string{"$1"}
	updates := make([]string, 0, len(columns)+1)
	args := []any{externalID}

	for i, column := range columns {
		name := pgx.Identifier{column}.Sanitize()
		names = append(names, name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", name, name))
		args = append(args, row[column])
	}
	updates = append(updates, updatedAtColumn+" = NOW()")

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		table,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		guildIDColumn,
		strings.Join(updates, ", "),
	)
	return query, args
}
