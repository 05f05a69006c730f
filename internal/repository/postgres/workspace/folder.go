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

const folderColumns = `id, owner_id, parent_id, name, description, visibility, shared_with,
		access_type, org_id, is_system, system_type, deleted_at, deleted_by, created_at, updated_at`

// PostgresFolderRepository implements FolderRepository for one kind's
// folder table.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewFolderRepository creates a folder repository bound to the given
// (already prefixed) table name.
func NewFolderRepository(config *postgres.RepositoryConfig, table string) wsRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		table:  table,
		logger: config.Logger,
	}
}

// Create inserts a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, name, description, visibility, shared_with,
			access_type, org_id, is_system, system_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Visibility,
		folder.SharedWith,
		folder.AccessType,
		folder.OrgID,
		folder.IsSystem,
		folder.SystemType,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder regardless of trash state
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.table)
	return r.queryOne(ctx, query, id)
}

// GetActive retrieves a folder with deleted_at IS NULL
func (r *PostgresFolderRepository) GetActive(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, folderColumns, r.table)
	return r.queryOne(ctx, query, id)
}

// Update persists mutable fields
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, description = $3, visibility = $4,
			shared_with = $5, access_type = $6, updated_at = $7
		WHERE id = $8
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Description,
		folder.Visibility,
		folder.SharedWith,
		folder.AccessType,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// ListChildIDs returns ids of active folders whose parent is any of the
// given ids
func (r *PostgresFolderRepository) ListChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE parent_id = ANY($1) AND deleted_at IS NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list child folder ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder ids: %w", err)
	}

	return ids, nil
}

// ListChildIDsAll returns ids of folders in any trash state whose parent is
// any of the given ids
func (r *PostgresFolderRepository) ListChildIDsAll(ctx context.Context, parentIDs []string) ([]string, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE parent_id = ANY($1)`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list child folder ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder ids: %w", err)
	}

	return ids, nil
}

// ListPrivate returns the owner's active folders with visibility != public
func (r *PostgresFolderRepository) ListPrivate(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND visibility <> 'public' AND deleted_at IS NULL
	`, folderColumns, r.table)
	args := []interface{}{ownerID}

	if parentID != nil {
		query += ` AND parent_id = $2`
		args = append(args, *parentID)
	}
	query += ` ORDER BY name ASC`

	return r.queryMany(ctx, query, args...)
}

// ListPublic returns active public folders in the org
func (r *PostgresFolderRepository) ListPublic(ctx context.Context, orgID string, parentID *string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE org_id = $1 AND visibility = 'public' AND deleted_at IS NULL
	`, folderColumns, r.table)
	args := []interface{}{orgID}

	if parentID != nil {
		query += ` AND parent_id = $2`
		args = append(args, *parentID)
	}
	query += ` ORDER BY name ASC`

	return r.queryMany(ctx, query, args...)
}

// ListTrash returns the owner's trashed folders, most recently trashed first
func (r *PostgresFolderRepository) ListTrash(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, folderColumns, r.table)

	return r.queryMany(ctx, query, ownerID)
}

// MarkDeleted trashes the given folders. The deleted_at IS NULL guard keeps
// the update idempotent under retries and racing deletes.
func (r *PostgresFolderRepository) MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error) {
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
		return 0, fmt.Errorf("mark folders deleted: %w", err)
	}

	return result.RowsAffected(), nil
}

// Restore brings a folder back from the trash, reparented to root. The
// deleted_at IS NOT NULL guard rejects a restore racing a concurrent one.
func (r *PostgresFolderRepository) Restore(ctx context.Context, id string, updatedAt time.Time) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NULL, deleted_by = NULL, parent_id = NULL, updated_at = $2
		WHERE id = $1 AND deleted_at IS NOT NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, updatedAt)
	if err != nil {
		return false, fmt.Errorf("restore folder: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// SetVisibility updates visibility on the given active folders
func (r *PostgresFolderRepository) SetVisibility(ctx context.Context, ids []string, visibility models.Visibility, updatedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET visibility = $2, updated_at = $3
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, ids, visibility, updatedAt); err != nil {
		return fmt.Errorf("set folder visibility: %w", err)
	}

	return nil
}

// EnsureSystemFolder inserts the folder unless an active row with the same
// (owner_id, system_type) already exists, then returns the surviving row.
// The partial unique index on (owner_id, system_type) WHERE deleted_at IS
// NULL makes concurrent invocations converge on a single row.
func (r *PostgresFolderRepository) EnsureSystemFolder(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, name, description, visibility, shared_with,
			access_type, org_id, is_system, system_type, created_at, updated_at)
		VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, $8, TRUE, $9, $10, $10)
		ON CONFLICT (owner_id, system_type) WHERE deleted_at IS NULL DO NOTHING
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.Name,
		folder.Description,
		folder.Visibility,
		folder.SharedWith,
		folder.AccessType,
		folder.OrgID,
		folder.SystemType,
		folder.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure system folder: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND system_type = $2 AND deleted_at IS NULL
	`, folderColumns, r.table)

	return r.queryOne(ctx, selectQuery, folder.OwnerID, folder.SystemType)
}

// ListExpired returns trashed folders with deleted_at <= cutoff
func (r *PostgresFolderRepository) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at ASC
		LIMIT $2
	`, folderColumns, r.table)

	return r.queryMany(ctx, query, cutoff, limit)
}

// DeleteRow permanently removes the folder record
func (r *PostgresFolderRepository) DeleteRow(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete folder row: %w", err)
	}

	return nil
}

func (r *PostgresFolderRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, args...)

	folder, err := scanFolder(row)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

func (r *PostgresFolderRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.Description,
		&folder.Visibility,
		&folder.SharedWith,
		&folder.AccessType,
		&folder.OrgID,
		&folder.IsSystem,
		&folder.SystemType,
		&folder.DeletedAt,
		&folder.DeletedBy,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
