package workspace

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scribe/internal/domain"
	models "scribe/internal/domain/models/workspace"
)

func trashedAt(env *testEnv, t *testing.T, id string, owner string, at time.Time) {
	t.Helper()
	_, err := env.resources.MarkDeleted(context.Background(), []string{id}, owner, at)
	require.NoError(t, err)
}

func TestCleanupExpiredTrash(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	cutoff := env.now.AddDate(0, 0, -30)

	old := env.addResource(t, models.Resource{ID: "old", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "old"})
	fresh := env.addResource(t, models.Resource{ID: "fresh", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "fresh"})
	active := env.addResource(t, models.Resource{ID: "active", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "active"})

	// 31 days old: past the window. 29 days old: still retained.
	trashedAt(env, t, old.ID, ada.ID, env.now.AddDate(0, 0, -31))
	trashedAt(env, t, fresh.ID, ada.ID, env.now.AddDate(0, 0, -29))

	oldFolder := env.addFolder(t, models.Folder{ID: "of", OwnerID: ada.ID, OrgID: ada.OrgID, Name: "of"})
	_, err := env.folders.MarkDeleted(ctx, []string{oldFolder.ID}, ada.ID, env.now.AddDate(0, 0, -31))
	require.NoError(t, err)

	purged, err := env.svc.CleanupExpiredTrash(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, 2, purged)

	_, err = env.resources.GetByID(ctx, old.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.folders.GetByID(ctx, oldFolder.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	for _, id := range []string{fresh.ID, active.ID} {
		_, err = env.resources.GetByID(ctx, id)
		require.NoError(t, err)
	}

	// a second run finds nothing
	purged, err = env.svc.CleanupExpiredTrash(ctx, cutoff)
	require.NoError(t, err)
	require.Zero(t, purged)
}

func TestCleanupExpiredTrashSkipsFailedBlobs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	res := env.addResource(t, models.Resource{ID: "r", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "r"})
	require.NoError(t, env.attachments.Create(ctx, &models.Attachment{
		ID: "a1", ResourceID: res.ID, ResourceKind: "meeting", ObjectKey: "blobs/bad",
	}))
	require.NoError(t, env.attachments.Create(ctx, &models.Attachment{
		ID: "a2", ResourceID: res.ID, ResourceKind: "meeting", ObjectKey: "blobs/good",
	}))
	require.NoError(t, env.blobs.Put(ctx, "blobs/good", strings.NewReader("x"), -1, "text/plain"))
	env.blobs.FailKeys["blobs/bad"] = true

	trashedAt(env, t, res.ID, ada.ID, env.now.AddDate(0, 0, -40))

	// the failing blob is logged and skipped; the purge still completes
	purged, err := env.svc.CleanupExpiredTrash(ctx, env.now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Equal(t, 1, purged)

	_, err = env.resources.GetByID(ctx, res.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.False(t, env.blobs.Has("blobs/good"))

	atts, err := env.attachments.ListByResource(ctx, "meeting", res.ID)
	require.NoError(t, err)
	require.Empty(t, atts)
}

func TestSweeperRetentionDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	settings := &memSettingsRepo{}
	sweeper := NewSweeper(settings, nil, slog.New(slog.DiscardHandler))

	days, err := sweeper.RetentionDays(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultRetentionDays, days)

	require.NoError(t, sweeper.SetRetentionDays(ctx, 90))
	days, err = sweeper.RetentionDays(ctx)
	require.NoError(t, err)
	require.Equal(t, 90, days)

	require.ErrorIs(t, sweeper.SetRetentionDays(ctx, 0), domain.ErrValidation)
	require.ErrorIs(t, sweeper.SetRetentionDays(ctx, -5), domain.ErrValidation)
	require.ErrorIs(t, sweeper.SetRetentionDays(ctx, 4000), domain.ErrValidation)
}

func TestSweeperSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	settings := &memSettingsRepo{}

	sweeper := NewSweeper(settings, []*Service{env.svc}, slog.New(slog.DiscardHandler)).
		WithClock(func() time.Time { return env.now })
	require.NoError(t, sweeper.SetRetentionDays(ctx, 7))

	old := env.addResource(t, models.Resource{ID: "old", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "old"})
	fresh := env.addResource(t, models.Resource{ID: "fresh", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "fresh"})
	trashedAt(env, t, old.ID, ada.ID, env.now.AddDate(0, 0, -8))
	trashedAt(env, t, fresh.ID, ada.ID, env.now.AddDate(0, 0, -6))

	require.NoError(t, sweeper.Sweep(ctx))

	_, err := env.resources.GetByID(ctx, old.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.resources.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
}
