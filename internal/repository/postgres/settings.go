package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"scribe/internal/domain/repositories"
)

const retentionKey = "retention_days"

// PostgresSettingsRepository implements SettingsRepository over the
// singleton settings table.
type PostgresSettingsRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(config *RepositoryConfig) repositories.SettingsRepository {
	return &PostgresSettingsRepository{
		pool:  config.Pool,
		table: config.Tables.Settings,
	}
}

// GetRetentionDays returns the trash retention window, falling back to the
// given default when no record exists yet
func (r *PostgresSettingsRepository) GetRetentionDays(ctx context.Context, defaultDays int) (int, error) {
	query := fmt.Sprintf(`SELECT (value->>'days')::int FROM %s WHERE key = $1`, r.table)

	var days int
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, retentionKey).Scan(&days)
	if err != nil {
		if IsPgNoRowsError(err) {
			return defaultDays, nil
		}
		return 0, fmt.Errorf("get retention days: %w", err)
	}

	return days, nil
}

// SetRetentionDays persists the trash retention window
func (r *PostgresSettingsRepository) SetRetentionDays(ctx context.Context, days int) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value)
		VALUES ($1, jsonb_build_object('days', $2::int))
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, r.table)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, retentionKey, days); err != nil {
		return fmt.Errorf("set retention days: %w", err)
	}

	return nil
}
