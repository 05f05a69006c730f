package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"scribe/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames resolves optionally prefixed table names. The embedded
// migrations create the unprefixed set; a prefix supports environments that
// share one database with pre-created prefixed tables.
type TableNames struct {
	Prefix      string
	Attachments string
	Settings    string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:      prefix,
		Attachments: prefix + "attachments",
		Settings:    prefix + "settings",
	}
}

// Table returns the prefixed name for an unprefixed table name. Kind-specific
// folder/resource tables are resolved through this at engine construction.
func (t *TableNames) Table(name string) string {
	return t.Prefix + name
}

// CreateConnectionPool creates a new pgx connection pool.
//
// When the database sits behind a transaction pooler (PgBouncer-style, port
// 6543 on hosted Postgres), prepared statements break with "prepared
// statement already exists". QueryExecModeCacheDescribe keeps the extended
// protocol (needed for proper JSONB encoding of map payloads) while caching
// only statement descriptions, which the pooler tolerates. An explicit
// default_query_exec_mode in the connection string takes precedence.
//
// Dynamic table prefixes interpolated with fmt.Sprintf are safe alongside
// statement caching: the SQL text is fixed before it reaches the server, so
// each environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for transaction pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
