package workspace

import (
	"context"
	"time"

	"scribe/internal/domain/models/workspace"
)

// ResourceRepository defines data access for one kind's resource table.
// Resources are created and destroyed by the project layer; the engine
// relocates, trashes, restores and purges them.
type ResourceRepository interface {
	// Create inserts a resource (seed/test surface; the engine never calls it)
	Create(ctx context.Context, resource *workspace.Resource) error

	// GetByID retrieves a resource regardless of trash state
	GetByID(ctx context.Context, id string) (*workspace.Resource, error)

	// ListForeignActiveInFolders returns active resources inside any of the
	// given folders whose owner is NOT the given principal
	ListForeignActiveInFolders(ctx context.Context, folderIDs []string, notOwnerID string) ([]workspace.Resource, error)

	// ListOwnedActiveInFolder returns the owner's active resources directly
	// inside the folder
	ListOwnedActiveInFolder(ctx context.Context, folderID, ownerID string) ([]workspace.Resource, error)

	// ListOwnedInFolders returns the owner's resources (any trash state)
	// inside any of the given folders
	ListOwnedInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]workspace.Resource, error)

	// Relocate moves a resource to the given folder and sets its visibility
	Relocate(ctx context.Context, id string, folderID *string, visibility workspace.Visibility, updatedAt time.Time) error

	// MarkDeleted sets deleted_at/deleted_by on the given resources (guarded:
	// already-trashed rows are untouched)
	MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error)

	// RestoreOwnedInFolder clears deleted_at on the owner's resources
	// directly inside the folder
	RestoreOwnedInFolder(ctx context.Context, folderID, ownerID string, updatedAt time.Time) error

	// SetVisibilityInFolders updates visibility on active resources inside
	// any of the given folders
	SetVisibilityInFolders(ctx context.Context, folderIDs []string, visibility workspace.Visibility, updatedAt time.Time) error

	// ListExpired returns trashed resources with deleted_at <= cutoff, oldest
	// first, at most limit rows
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]workspace.Resource, error)

	// DeleteRow permanently removes the resource record. Deleting an absent
	// row is a no-op.
	DeleteRow(ctx context.Context, id string) error
}

// AttachmentRepository tracks externally stored blobs per resource. The
// attachments table is shared across kinds, keyed by (resource_kind,
// resource_id).
type AttachmentRepository interface {
	// Create inserts an attachment row (upload surface)
	Create(ctx context.Context, attachment *workspace.Attachment) error

	// ListByResource returns all attachments of a resource
	ListByResource(ctx context.Context, kind, resourceID string) ([]workspace.Attachment, error)

	// DeleteByResource removes all attachment rows of a resource
	DeleteByResource(ctx context.Context, kind, resourceID string) error
}
