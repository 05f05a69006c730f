package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scribe/internal/domain"
	models "scribe/internal/domain/models/workspace"
	wsRepo "scribe/internal/domain/repositories/workspace"
	"scribe/internal/repository/postgres"
)

const resourceColumns = `id, owner_id, folder_id, title, visibility, org_id, payload,
		deleted_at, deleted_by, created_at, updated_at`

// PostgresResourceRepository implements ResourceRepository for one kind's
// resource table.
type PostgresResourceRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewResourceRepository creates a resource repository bound to the given
// (already prefixed) table name.
func NewResourceRepository(config *postgres.RepositoryConfig, table string) wsRepo.ResourceRepository {
	return &PostgresResourceRepository{
		pool:   config.Pool,
		table:  table,
		logger: config.Logger,
	}
}

// Create inserts a resource. The engine never creates resources; this is
// the seed/test surface.
func (r *PostgresResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, folder_id, title, visibility, org_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		resource.ID,
		resource.OwnerID,
		resource.FolderID,
		resource.Title,
		resource.Visibility,
		resource.OrgID,
		resource.Payload,
		resource.CreatedAt,
		resource.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("resource %q: %w", resource.Title, domain.ErrConflict)
		}
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

// GetByID retrieves a resource regardless of trash state
func (r *PostgresResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, resourceColumns, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	resource, err := scanResource(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("resource %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return resource, nil
}

// ListForeignActiveInFolders returns active resources in the given folders
// owned by someone other than notOwnerID
func (r *PostgresResourceRepository) ListForeignActiveInFolders(ctx context.Context, folderIDs []string, notOwnerID string) ([]models.Resource, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = ANY($1) AND owner_id <> $2 AND deleted_at IS NULL
	`, resourceColumns, r.table)

	return r.queryMany(ctx, query, folderIDs, notOwnerID)
}

// ListOwnedActiveInFolder returns the owner's active resources directly
// inside the folder
func (r *PostgresResourceRepository) ListOwnedActiveInFolder(ctx context.Context, folderID, ownerID string) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, resourceColumns, r.table)

	return r.queryMany(ctx, query, folderID, ownerID)
}

// ListOwnedInFolders returns the owner's resources in any trash state
// inside the given folders
func (r *PostgresResourceRepository) ListOwnedInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]models.Resource, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = ANY($1) AND owner_id = $2
	`, resourceColumns, r.table)

	return r.queryMany(ctx, query, folderIDs, ownerID)
}

// Relocate moves a resource to the given folder and sets its visibility
func (r *PostgresResourceRepository) Relocate(ctx context.Context, id string, folderID *string, visibility models.Visibility, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $2, visibility = $3, updated_at = $4
		WHERE id = $1
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, folderID, visibility, updatedAt)
	if err != nil {
		return fmt.Errorf("relocate resource: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkDeleted trashes the given resources; already-trashed rows are left
// untouched
func (r *PostgresResourceRepository) MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $2, deleted_by = $3, updated_at = $2
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids, deletedAt, deletedBy)
	if err != nil {
		return 0, fmt.Errorf("mark resources deleted: %w", err)
	}

	return result.RowsAffected(), nil
}

// RestoreOwnedInFolder clears deleted_at on the owner's resources directly
// inside the folder
func (r *PostgresResourceRepository) RestoreOwnedInFolder(ctx context.Context, folderID, ownerID string, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NULL, deleted_by = NULL, updated_at = $3
		WHERE folder_id = $1 AND owner_id = $2 AND deleted_at IS NOT NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, folderID, ownerID, updatedAt); err != nil {
		return fmt.Errorf("restore resources in folder: %w", err)
	}

	return nil
}

// SetVisibilityInFolders updates visibility on active resources in the
// given folders
func (r *PostgresResourceRepository) SetVisibilityInFolders(ctx context.Context, folderIDs []string, visibility models.Visibility, updatedAt time.Time) error {
	if len(folderIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET visibility = $2, updated_at = $3
		WHERE folder_id = ANY($1) AND deleted_at IS NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, folderIDs, visibility, updatedAt); err != nil {
		return fmt.Errorf("set resource visibility: %w", err)
	}

	return nil
}

// ListExpired returns trashed resources with deleted_at <= cutoff
func (r *PostgresResourceRepository) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at ASC
		LIMIT $2
	`, resourceColumns, r.table)

	return r.queryMany(ctx, query, cutoff, limit)
}

// DeleteRow permanently removes the resource record
func (r *PostgresResourceRepository) DeleteRow(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete resource row: %w", err)
	}

	return nil
}

func (r *PostgresResourceRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Resource, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, *resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	return resources, nil
}

func scanResource(row pgx.Row) (*models.Resource, error) {
	var resource models.Resource
	err := row.Scan(
		&resource.ID,
		&resource.OwnerID,
		&resource.FolderID,
		&resource.Title,
		&resource.Visibility,
		&resource.OrgID,
		&resource.Payload,
		&resource.DeletedAt,
		&resource.DeletedBy,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}
