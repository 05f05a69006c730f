package workspace

import (
	"time"
)

// Visibility controls who can see a folder or resource.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// AccessType controls what non-owners may do with a public folder.
type AccessType string

const (
	AccessReadonly  AccessType = "readonly"
	AccessReadwrite AccessType = "readwrite"
)

// SharedWithAll is the shared_with sentinel meaning every principal in the
// folder's org.
const SharedWithAll = "all"

// SystemTypeRecovered marks the per-owner singleton folder that receives
// resources orphaned when a shared ancestor they don't own is trashed.
const SystemTypeRecovered = "recovered"

type Folder struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	ParentID    *string    `json:"parent_id" db:"parent_id"` // NULL = root level
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	SharedWith  []string   `json:"shared_with,omitempty" db:"shared_with"`
	AccessType  AccessType `json:"access_type" db:"access_type"`
	OrgID       string     `json:"org_id" db:"org_id"`
	IsSystem    bool       `json:"is_system" db:"is_system"`
	SystemType  *string    `json:"system_type,omitempty" db:"system_type"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy   *string    `json:"deleted_by,omitempty" db:"deleted_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Trashed reports whether the folder is soft-deleted.
func (f *Folder) Trashed() bool {
	return f.DeletedAt != nil
}

// SharedWithPrincipal reports whether shared_with admits the given principal
// id. An empty list admits everyone in the org; so does the "all" sentinel.
func (f *Folder) SharedWithPrincipal(principalID string) bool {
	if len(f.SharedWith) == 0 {
		return true
	}
	for _, id := range f.SharedWith {
		if id == SharedWithAll || id == principalID {
			return true
		}
	}
	return false
}

// ListTab selects which slice of folders a listing returns.
type ListTab string

const (
	TabPrivate ListTab = "private"
	TabPublic  ListTab = "public"
	TabTrash   ListTab = "trash"
)
