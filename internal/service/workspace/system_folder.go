package workspace

import (
	"context"
	"fmt"

	models "scribe/internal/domain/models/workspace"
)

// EnsureRecoveredFolder returns the owner's singleton "recovered" system
// folder, creating it if absent. System folders are lazily created, never
// user-created, and never deletable or movable.
//
// Idempotent under concurrent invocation: uniqueness lives in the store's
// partial unique index on (owner_id, system_type), not in a check-then-insert
// here, so two relocations racing for the same owner converge on one row.
func (s *Service) EnsureRecoveredFolder(ctx context.Context, owner models.Principal) (*models.Folder, error) {
	now := s.now()
	systemType := models.SystemTypeRecovered

	folder := &models.Folder{
		OwnerID:    owner.ID,
		Name:       s.kind.RecoveredFolderName,
		Visibility: models.VisibilityPrivate,
		SharedWith: []string{},
		AccessType: models.AccessReadwrite,
		OrgID:      owner.OrgID,
		IsSystem:   true,
		SystemType: &systemType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ensured, err := s.folders.EnsureSystemFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("ensure recovered folder for %s: %w", owner.ID, err)
	}

	return ensured, nil
}
