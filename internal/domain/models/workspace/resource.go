package workspace

import (
	"time"
)

// Resource is a leaf work item (a meeting or a document, depending on the
// kind it belongs to). Resources are created by the project layer; this
// engine only relocates, re-visibilities, trashes, restores and purges them.
type Resource struct {
	ID         string                 `json:"id" db:"id"`
	OwnerID    string                 `json:"owner_id" db:"owner_id"`
	FolderID   *string                `json:"folder_id" db:"folder_id"` // NULL = root level
	Title      string                 `json:"title" db:"title"`
	Visibility Visibility             `json:"visibility" db:"visibility"`
	OrgID      string                 `json:"org_id" db:"org_id"`
	Payload    map[string]interface{} `json:"payload,omitempty" db:"payload"`
	DeletedAt  *time.Time             `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy  *string                `json:"deleted_by,omitempty" db:"deleted_by"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" db:"updated_at"`
}

// Trashed reports whether the resource is soft-deleted.
func (r *Resource) Trashed() bool {
	return r.DeletedAt != nil
}

// Attachment is the metadata row for an externally stored blob (audio
// upload, export, transcript artifact). The object itself lives in the blob
// store under ObjectKey.
type Attachment struct {
	ID           string    `json:"id" db:"id"`
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	ResourceKind string    `json:"resource_kind" db:"resource_kind"`
	ObjectKey    string    `json:"object_key" db:"object_key"`
	SizeBytes    int64     `json:"size_bytes" db:"size_bytes"`
	ContentType  string    `json:"content_type" db:"content_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
