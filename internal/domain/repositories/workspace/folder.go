package workspace

import (
	"context"
	"time"

	"scribe/internal/domain/models/workspace"
)

// FolderRepository defines data access for one kind's folder table.
// All list/traversal methods consider active (non-trashed) rows only unless
// the method says otherwise. Each mutation is a single atomic row update;
// no method spans rows transactionally.
type FolderRepository interface {
	// Create inserts a new folder
	Create(ctx context.Context, folder *workspace.Folder) error

	// GetByID retrieves a folder regardless of trash state
	GetByID(ctx context.Context, id string) (*workspace.Folder, error)

	// GetActive retrieves a folder with deleted_at IS NULL
	GetActive(ctx context.Context, id string) (*workspace.Folder, error)

	// Update persists mutable fields (name, description, visibility,
	// shared_with, access_type, parent_id, updated_at)
	Update(ctx context.Context, folder *workspace.Folder) error

	// ListChildIDs returns ids of active folders whose parent_id is any of
	// the given ids
	ListChildIDs(ctx context.Context, parentIDs []string) ([]string, error)

	// ListChildIDsAll is ListChildIDs without the trash filter; the
	// permanent-delete path walks trashed subtrees with it
	ListChildIDsAll(ctx context.Context, parentIDs []string) ([]string, error)

	// ListPrivate returns the owner's active folders with visibility != public
	ListPrivate(ctx context.Context, ownerID string, parentID *string) ([]workspace.Folder, error)

	// ListPublic returns active public folders in the org (share filtering is
	// the caller's job)
	ListPublic(ctx context.Context, orgID string, parentID *string) ([]workspace.Folder, error)

	// ListTrash returns the owner's trashed folders
	ListTrash(ctx context.Context, ownerID string) ([]workspace.Folder, error)

	// MarkDeleted sets deleted_at/deleted_by on the given folders. Rows
	// already trashed are left untouched (guarded update); the count of rows
	// actually transitioned is returned.
	MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error)

	// Restore clears deleted_at/deleted_by and reparents the folder to root.
	// Returns false if the folder was not in the trash.
	Restore(ctx context.Context, id string, updatedAt time.Time) (bool, error)

	// SetVisibility updates visibility on the given active folders
	SetVisibility(ctx context.Context, ids []string, visibility workspace.Visibility, updatedAt time.Time) error

	// EnsureSystemFolder inserts the folder unless an active row with the
	// same (owner_id, system_type) exists, and returns the surviving row.
	// The store's uniqueness constraint makes this safe under concurrent
	// invocation.
	EnsureSystemFolder(ctx context.Context, folder *workspace.Folder) (*workspace.Folder, error)

	// ListExpired returns trashed folders with deleted_at <= cutoff, oldest
	// first, at most limit rows
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]workspace.Folder, error)

	// DeleteRow permanently removes the folder record. Deleting an absent
	// row is a no-op.
	DeleteRow(ctx context.Context, id string) error
}
