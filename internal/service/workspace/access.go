package workspace

import (
	"context"

	models "scribe/internal/domain/models/workspace"
)

// CanReadFolder reports whether the principal may read the folder: the
// owner always may; anyone else needs a public folder in their org whose
// shared_with admits them. Pure predicate; a nil folder reads false.
func CanReadFolder(folder *models.Folder, principal models.Principal) bool {
	if folder == nil {
		return false
	}
	if folder.OwnerID == principal.ID {
		return true
	}
	if folder.Visibility != models.VisibilityPublic {
		return false
	}
	if folder.OrgID != principal.OrgID {
		return false
	}
	return folder.SharedWithPrincipal(principal.ID)
}

// CanWriteFolder reports whether the principal may mutate contents of the
// folder: the owner always may; anyone else needs read access plus a
// readwrite access type.
func CanWriteFolder(folder *models.Folder, principal models.Principal) bool {
	if folder == nil {
		return false
	}
	if folder.OwnerID == principal.ID {
		return true
	}
	return CanReadFolder(folder, principal) && folder.AccessType == models.AccessReadwrite
}

// CanReadResource resolves a resource's effective read access through its
// containing folder. Root resources are readable only by their owner.
// Never returns an error: an absent or trashed folder resolves to false.
func (s *Service) CanReadResource(ctx context.Context, resource *models.Resource, principal models.Principal) bool {
	if resource == nil {
		return false
	}
	if resource.OwnerID == principal.ID {
		return true
	}
	if resource.FolderID == nil {
		return false
	}
	folder, err := s.folders.GetActive(ctx, *resource.FolderID)
	if err != nil {
		return false
	}
	return CanReadFolder(folder, principal)
}

// CanWriteResource mirrors CanReadResource with write semantics.
func (s *Service) CanWriteResource(ctx context.Context, resource *models.Resource, principal models.Principal) bool {
	if resource == nil {
		return false
	}
	if resource.OwnerID == principal.ID {
		return true
	}
	if resource.FolderID == nil {
		return false
	}
	folder, err := s.folders.GetActive(ctx, *resource.FolderID)
	if err != nil {
		return false
	}
	return CanWriteFolder(folder, principal)
}
