package workspace

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"scribe/internal/domain"
	"scribe/internal/domain/repositories"
)

// DefaultRetentionDays is the trash retention window used until an
// operator sets one.
const DefaultRetentionDays = 30

// sweepBatchSize bounds each fetch of expired records so a large trash
// backlog is purged incrementally rather than in one unbounded query.
const sweepBatchSize = 200

// CleanupExpiredTrash purges every trashed record of this kind whose
// deleted_at is at or before the cutoff: resources first (blobs
// best-effort, then metadata, then the record), then folder records — the
// folder pass needs no cascade because the resource pass already ran over
// all resources regardless of folder boundaries.
//
// Safe to invoke repeatedly or concurrently: every record is deleted at
// most once and a second run over an already-purged id finds nothing.
// Returns the number of records removed.
func (s *Service) CleanupExpiredTrash(ctx context.Context, cutoff time.Time) (int, error) {
	purged := 0

	for {
		expired, err := s.resources.ListExpired(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return purged, err
		}
		for i := range expired {
			if err := s.purgeResource(ctx, expired[i].ID); err != nil {
				return purged, err
			}
			purged++
		}
		if len(expired) < sweepBatchSize {
			break
		}
	}

	for {
		expired, err := s.folders.ListExpired(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return purged, err
		}
		for i := range expired {
			if err := s.folders.DeleteRow(ctx, expired[i].ID); err != nil {
				return purged, err
			}
			purged++
		}
		if len(expired) < sweepBatchSize {
			break
		}
	}

	return purged, nil
}

// Sweeper applies the retention window across all kinds.
type Sweeper struct {
	settings repositories.SettingsRepository
	engines  []*Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweeper creates the retention sweeper over the given engines.
func NewSweeper(settings repositories.SettingsRepository, engines []*Service, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		settings: settings,
		engines:  engines,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the sweeper clock. Test hook.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// RetentionDays returns the configured retention window.
func (s *Sweeper) RetentionDays(ctx context.Context) (int, error) {
	return s.settings.GetRetentionDays(ctx, DefaultRetentionDays)
}

// SetRetentionDays updates the retention window.
func (s *Sweeper) SetRetentionDays(ctx context.Context, days int) error {
	if err := validation.Validate(days, validation.Required, validation.Min(1), validation.Max(3650)); err != nil {
		return &domain.ValidationError{Message: "retention_days " + err.Error()}
	}
	return s.settings.SetRetentionDays(ctx, days)
}

// Sweep purges expired trash for every kind. A failing kind is logged and
// does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context) error {
	days, err := s.RetentionDays(ctx)
	if err != nil {
		return err
	}
	cutoff := s.now().AddDate(0, 0, -days)

	var firstErr error
	for _, engine := range s.engines {
		purged, err := engine.CleanupExpiredTrash(ctx, cutoff)
		if err != nil {
			s.logger.Error("trash sweep failed",
				"kind", engine.Kind().Name,
				"purged_before_error", purged,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if purged > 0 {
			s.logger.Info("trash sweep completed",
				"kind", engine.Kind().Name,
				"purged", purged,
				"retention_days", days,
			)
		}
	}

	return firstErr
}
