package workspace

import (
	"context"
	"fmt"

	"scribe/internal/domain"
	models "scribe/internal/domain/models/workspace"
)

// CreateFolder creates a folder owned by the principal. A parent, when
// given, must exist, be active, and be writable by the principal.
func (s *Service) CreateFolder(ctx context.Context, principal models.Principal, req *CreateFolderRequest) (*models.Folder, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if req.ParentID != nil {
		parent, err := s.folders.GetActive(ctx, *req.ParentID)
		if err != nil {
			return nil, &domain.InvalidParentError{Message: fmt.Sprintf("parent folder %s not found", *req.ParentID)}
		}
		if !CanWriteFolder(parent, principal) {
			return nil, &domain.ForbiddenError{Message: "no write access to parent folder"}
		}
	}

	now := s.now()
	sharedWith := req.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}

	folder := &models.Folder{
		OwnerID:     principal.ID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
		SharedWith:  sharedWith,
		AccessType:  req.AccessType,
		OrgID:       principal.OrgID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"kind", s.kind.Name,
		"id", folder.ID,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
		"visibility", folder.Visibility,
	)

	return folder, nil
}

// GetFolder returns an active folder the principal may read.
func (s *Service) GetFolder(ctx context.Context, principal models.Principal, folderID string) (*models.Folder, error) {
	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !CanReadFolder(folder, principal) {
		return nil, &domain.ForbiddenError{Message: "no read access to folder"}
	}
	return folder, nil
}

// ListFolders returns the folders on one tab. The tab filters are disjoint:
// private is the caller's own non-public active folders, public is active
// org-visible folders readable by the caller, trash is the caller's own
// trashed folders.
func (s *Service) ListFolders(ctx context.Context, principal models.Principal, tab models.ListTab, parentID *string) ([]models.Folder, error) {
	switch tab {
	case models.TabPrivate:
		return s.folders.ListPrivate(ctx, principal.ID, parentID)
	case models.TabPublic:
		candidates, err := s.folders.ListPublic(ctx, principal.OrgID, parentID)
		if err != nil {
			return nil, err
		}
		readable := make([]models.Folder, 0, len(candidates))
		for i := range candidates {
			if CanReadFolder(&candidates[i], principal) {
				readable = append(readable, candidates[i])
			}
		}
		return readable, nil
	case models.TabTrash:
		return s.folders.ListTrash(ctx, principal.ID)
	default:
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown tab %q", tab)}
	}
}

// UpdateFolder applies a partial update. Owner-only.
func (s *Service) UpdateFolder(ctx context.Context, principal models.Principal, folderID string, req *UpdateFolderRequest) (*models.Folder, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the owner may update a folder"}
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = *req.Description
	}
	folder.UpdatedAt = s.now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder updated", "kind", s.kind.Name, "id", folder.ID)

	return folder, nil
}

// ShareFolder makes this folder org-visible. Descendants are untouched: a
// shared root can coexist with private subfolders unless CascadeVisibility
// is invoked explicitly.
func (s *Service) ShareFolder(ctx context.Context, principal models.Principal, folderID string, req *ShareFolderRequest) (*models.Folder, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the owner may share a folder"}
	}

	folder.Visibility = models.VisibilityPublic
	folder.SharedWith = req.SharedWith
	if folder.SharedWith == nil {
		folder.SharedWith = []string{}
	}
	folder.AccessType = req.AccessType
	folder.UpdatedAt = s.now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder shared",
		"kind", s.kind.Name,
		"id", folder.ID,
		"shared_with", folder.SharedWith,
		"access_type", folder.AccessType,
	)

	return folder, nil
}

// UnshareFolder reverts this folder to private and clears its share list.
func (s *Service) UnshareFolder(ctx context.Context, principal models.Principal, folderID string) (*models.Folder, error) {
	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the owner may unshare a folder"}
	}

	folder.Visibility = models.VisibilityPrivate
	folder.SharedWith = []string{}
	folder.UpdatedAt = s.now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder unshared", "kind", s.kind.Name, "id", folder.ID)

	return folder, nil
}

// MoveFolder reparents a folder. Owner-only; a nil newParentID moves to
// root. The target must exist and be active; target ownership is not
// required, since a write-shared foreign folder is a legitimate destination.
func (s *Service) MoveFolder(ctx context.Context, principal models.Principal, folderID string, newParentID *string) (*models.Folder, error) {
	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the owner may move a folder"}
	}
	if folder.IsSystem {
		return nil, &domain.ForbiddenError{Message: "system folders cannot be moved"}
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return nil, &domain.InvalidParentError{Message: "folder cannot be its own parent"}
		}
		if _, err := s.folders.GetActive(ctx, *newParentID); err != nil {
			return nil, &domain.InvalidParentError{Message: fmt.Sprintf("target folder %s not found", *newParentID)}
		}
	}

	folder.ParentID = newParentID
	folder.UpdatedAt = s.now()

	if err := s.folders.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved", "kind", s.kind.Name, "id", folder.ID, "parent_id", newParentID)

	return folder, nil
}

// SoftDeleteFolder trashes a folder. For a public folder the subtree is
// processed first: foreign-owned resources anywhere under it are relocated
// to their owners' recovered folders (relocated, not trashed), then every
// descendant folder is trashed. Finally the folder itself and the actor's
// direct resources inside it are trashed. The actor's resources inside
// subfolders are deliberately left active.
//
// Safe to retry after a crash: relocated resources drop out of the foreign
// query, trashed folders drop out of the active walk, and the guarded
// updates skip rows already trashed, so a re-run converges instead of
// double-processing. Calling it on an already-trashed folder is a no-op.
func (s *Service) SoftDeleteFolder(ctx context.Context, principal models.Principal, folderID string) error {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.Trashed() {
		return nil
	}
	if folder.OwnerID != principal.ID {
		return &domain.ForbiddenError{Message: "only the owner may delete a folder"}
	}
	if folder.IsSystem {
		return &domain.ForbiddenError{Message: "system folders cannot be deleted"}
	}

	now := s.now()

	if folder.Visibility == models.VisibilityPublic {
		descendants, err := s.DescendantFolderIDs(ctx, folderID)
		if err != nil {
			return err
		}
		subtree := append([]string{folderID}, descendants...)

		foreign, err := s.resources.ListForeignActiveInFolders(ctx, subtree, principal.ID)
		if err != nil {
			return err
		}
		for i := range foreign {
			resource := &foreign[i]
			recovered, err := s.EnsureRecoveredFolder(ctx, models.Principal{ID: resource.OwnerID, OrgID: resource.OrgID})
			if err != nil {
				return err
			}
			if err := s.resources.Relocate(ctx, resource.ID, &recovered.ID, models.VisibilityPrivate, now); err != nil {
				return err
			}
			s.logger.Info("resource relocated to recovered folder",
				"kind", s.kind.Name,
				"resource_id", resource.ID,
				"owner_id", resource.OwnerID,
				"recovered_folder_id", recovered.ID,
			)
		}

		if _, err := s.folders.MarkDeleted(ctx, descendants, principal.ID, now); err != nil {
			return err
		}
	}

	if _, err := s.folders.MarkDeleted(ctx, []string{folderID}, principal.ID, now); err != nil {
		return err
	}

	direct, err := s.resources.ListOwnedActiveInFolder(ctx, folderID, principal.ID)
	if err != nil {
		return err
	}
	directIDs := make([]string, 0, len(direct))
	for i := range direct {
		directIDs = append(directIDs, direct[i].ID)
	}
	if _, err := s.resources.MarkDeleted(ctx, directIDs, principal.ID, now); err != nil {
		return err
	}

	s.logger.Info("folder trashed",
		"kind", s.kind.Name,
		"id", folderID,
		"direct_resources", len(directIDs),
	)

	return nil
}

// RestoreFolder brings a trashed folder back, reparented to root so it
// cannot re-attach under a still-trashed ancestor. Only the actor's direct
// resources inside the folder are restored; nested subfolders and their
// resources stay trashed unless restored separately.
func (s *Service) RestoreFolder(ctx context.Context, principal models.Principal, folderID string) (*models.Folder, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != principal.ID {
		return nil, &domain.ForbiddenError{Message: "only the owner may restore a folder"}
	}
	if !folder.Trashed() {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s is not in the trash", folderID)}
	}

	now := s.now()
	restored, err := s.folders.Restore(ctx, folderID, now)
	if err != nil {
		return nil, err
	}
	if !restored {
		// Lost a race against a concurrent restore or purge
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s is not in the trash", folderID)}
	}

	if err := s.resources.RestoreOwnedInFolder(ctx, folderID, principal.ID, now); err != nil {
		return nil, err
	}

	s.logger.Info("folder restored", "kind", s.kind.Name, "id", folderID)

	return s.folders.GetActive(ctx, folderID)
}

// PermanentDeleteFolder purges a trashed folder on explicit user request.
// Every resource owned by the actor anywhere in the subtree is purged
// (blobs best-effort, then attachment metadata, then the record); the
// folder record itself goes last. Trashed descendant folder records remain
// for the retention sweeper.
func (s *Service) PermanentDeleteFolder(ctx context.Context, principal models.Principal, folderID string) error {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.OwnerID != principal.ID {
		return &domain.ForbiddenError{Message: "only the owner may permanently delete a folder"}
	}
	if !folder.Trashed() {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s is not in the trash", folderID)}
	}

	descendants, err := s.descendantFolderIDsAll(ctx, folderID)
	if err != nil {
		return err
	}
	subtree := append([]string{folderID}, descendants...)

	owned, err := s.resources.ListOwnedInFolders(ctx, subtree, principal.ID)
	if err != nil {
		return err
	}
	for i := range owned {
		if err := s.purgeResource(ctx, owned[i].ID); err != nil {
			return err
		}
	}

	if err := s.folders.DeleteRow(ctx, folderID); err != nil {
		return err
	}

	s.logger.Info("folder permanently deleted",
		"kind", s.kind.Name,
		"id", folderID,
		"resources_purged", len(owned),
	)

	return nil
}

// CascadeVisibility sets visibility on the folder, every active descendant
// folder, and every active resource within the subtree. This is the
// explicit cascade; ShareFolder/UnshareFolder touch only their folder.
func (s *Service) CascadeVisibility(ctx context.Context, principal models.Principal, folderID string, visibility models.Visibility) error {
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityPublic {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown visibility %q", visibility)}
	}

	folder, err := s.folders.GetActive(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.OwnerID != principal.ID {
		return &domain.ForbiddenError{Message: "only the owner may change subtree visibility"}
	}

	descendants, err := s.DescendantFolderIDs(ctx, folderID)
	if err != nil {
		return err
	}
	subtree := append([]string{folderID}, descendants...)

	now := s.now()
	if err := s.folders.SetVisibility(ctx, subtree, visibility, now); err != nil {
		return err
	}
	if err := s.resources.SetVisibilityInFolders(ctx, subtree, visibility, now); err != nil {
		return err
	}

	s.logger.Info("visibility cascaded",
		"kind", s.kind.Name,
		"id", folderID,
		"visibility", visibility,
		"folders", len(subtree),
	)

	return nil
}

// purgeResource removes a resource for good: attachment blobs first
// (best-effort; a failed blob delete is logged and skipped so metadata
// never dangles), then attachment rows, then the resource record.
func (s *Service) purgeResource(ctx context.Context, resourceID string) error {
	attachments, err := s.attachments.ListByResource(ctx, s.kind.Name, resourceID)
	if err != nil {
		return err
	}
	for i := range attachments {
		if err := s.blobs.Delete(ctx, attachments[i].ObjectKey); err != nil {
			s.logger.Warn("attachment blob delete failed, skipping",
				"kind", s.kind.Name,
				"resource_id", resourceID,
				"object_key", attachments[i].ObjectKey,
				"error", err,
			)
		}
	}

	if err := s.attachments.DeleteByResource(ctx, s.kind.Name, resourceID); err != nil {
		return err
	}
	return s.resources.DeleteRow(ctx, resourceID)
}
