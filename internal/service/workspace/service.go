// Package workspace implements the folder/resource access-control and
// lifecycle engine. One Service is instantiated per resource kind; all
// operations go through the kind's own folder and resource repositories.
package workspace

import (
	"log/slog"
	"time"

	"scribe/internal/kinds"
	wsRepo "scribe/internal/domain/repositories/workspace"
	"scribe/internal/storage"
)

// Service orchestrates folder lifecycle operations for one resource kind.
type Service struct {
	kind        kinds.Kind
	folders     wsRepo.FolderRepository
	resources   wsRepo.ResourceRepository
	attachments wsRepo.AttachmentRepository
	blobs       storage.BlobStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates the lifecycle engine for one kind.
func NewService(
	kind kinds.Kind,
	folders wsRepo.FolderRepository,
	resources wsRepo.ResourceRepository,
	attachments wsRepo.AttachmentRepository,
	blobs storage.BlobStore,
	logger *slog.Logger,
) *Service {
	return &Service{
		kind:        kind,
		folders:     folders,
		resources:   resources,
		attachments: attachments,
		blobs:       blobs,
		logger:      logger,
		now:         time.Now,
	}
}

// Kind returns the kind this engine serves.
func (s *Service) Kind() kinds.Kind {
	return s.kind
}

// WithClock overrides the engine clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
