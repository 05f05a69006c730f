package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	models "scribe/internal/domain/models/workspace"
)

var (
	ada   = models.Principal{ID: "user-ada", OrgID: "org-a"}
	grace = models.Principal{ID: "user-grace", OrgID: "org-a"}
	mallo = models.Principal{ID: "user-mallory", OrgID: "org-b"}
)

func TestCanReadFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		folder    *models.Folder
		principal models.Principal
		want      bool
	}{
		{
			name:      "nil folder",
			folder:    nil,
			principal: ada,
			want:      false,
		},
		{
			name:      "owner reads own private folder",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPrivate},
			principal: ada,
			want:      true,
		},
		{
			name:      "non-owner cannot read private folder",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPrivate},
			principal: grace,
			want:      false,
		},
		{
			name:      "org member reads public folder with empty share list",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{}},
			principal: grace,
			want:      true,
		},
		{
			name:      "org member reads public folder shared with all",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{models.SharedWithAll}},
			principal: grace,
			want:      true,
		},
		{
			name:      "listed member reads public folder",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{grace.ID}},
			principal: grace,
			want:      true,
		},
		{
			name:      "unlisted member cannot read restricted public folder",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{"user-other"}},
			principal: grace,
			want:      false,
		},
		{
			name:      "other org cannot read public folder",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{}},
			principal: mallo,
			want:      false,
		},
		{
			name:      "owner reads own folder even when listed out",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{grace.ID}},
			principal: ada,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CanReadFolder(tt.folder, tt.principal))
		})
	}
}

func TestCanWriteFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		folder    *models.Folder
		principal models.Principal
		want      bool
	}{
		{
			name:      "owner writes own folder regardless of access type",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPrivate, AccessType: models.AccessReadonly},
			principal: ada,
			want:      true,
		},
		{
			name:      "readable readwrite folder is writable",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{}, AccessType: models.AccessReadwrite},
			principal: grace,
			want:      true,
		},
		{
			name:      "readable readonly folder is not writable",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{}, AccessType: models.AccessReadonly},
			principal: grace,
			want:      false,
		},
		{
			name:      "unreadable folder is not writable even if readwrite",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPrivate, AccessType: models.AccessReadwrite},
			principal: grace,
			want:      false,
		},
		{
			name:      "cross-org readwrite folder is not writable",
			folder:    &models.Folder{OwnerID: ada.ID, OrgID: ada.OrgID, Visibility: models.VisibilityPublic, SharedWith: []string{}, AccessType: models.AccessReadwrite},
			principal: mallo,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CanWriteFolder(tt.folder, tt.principal))
		})
	}
}

func TestCanReadResource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	shared := env.addFolder(t, models.Folder{
		ID: "f-shared", OwnerID: ada.ID, OrgID: ada.OrgID,
		Name: "Shared", Visibility: models.VisibilityPublic,
	})

	inShared := env.addResource(t, models.Resource{
		ID: "r-1", OwnerID: ada.ID, OrgID: ada.OrgID, FolderID: &shared.ID, Title: "Notes",
	})
	atRoot := env.addResource(t, models.Resource{
		ID: "r-2", OwnerID: ada.ID, OrgID: ada.OrgID, Title: "Root notes",
	})

	// Access flows from the containing folder
	require.True(t, env.svc.CanReadResource(ctx, inShared, grace))
	require.False(t, env.svc.CanReadResource(ctx, inShared, mallo))

	// Root resources are owner-only
	require.True(t, env.svc.CanReadResource(ctx, atRoot, ada))
	require.False(t, env.svc.CanReadResource(ctx, atRoot, grace))

	// A trashed folder no longer grants access to non-owners
	_, err := env.folders.MarkDeleted(ctx, []string{shared.ID}, ada.ID, env.now)
	require.NoError(t, err)
	require.False(t, env.svc.CanReadResource(ctx, inShared, grace))
	require.True(t, env.svc.CanReadResource(ctx, inShared, ada))

	require.False(t, env.svc.CanReadResource(ctx, nil, ada))
}

func TestCanWriteResource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	rw := env.addFolder(t, models.Folder{
		ID: "f-rw", OwnerID: ada.ID, OrgID: ada.OrgID,
		Name: "Editable", Visibility: models.VisibilityPublic, AccessType: models.AccessReadwrite,
	})
	ro := env.addFolder(t, models.Folder{
		ID: "f-ro", OwnerID: ada.ID, OrgID: ada.OrgID,
		Name: "Readonly", Visibility: models.VisibilityPublic, AccessType: models.AccessReadonly,
	})

	inRW := env.addResource(t, models.Resource{
		ID: "r-rw", OwnerID: ada.ID, OrgID: ada.OrgID, FolderID: &rw.ID, Title: "Draft",
	})
	inRO := env.addResource(t, models.Resource{
		ID: "r-ro", OwnerID: ada.ID, OrgID: ada.OrgID, FolderID: &ro.ID, Title: "Final",
	})

	require.True(t, env.svc.CanWriteResource(ctx, inRW, grace))
	require.False(t, env.svc.CanWriteResource(ctx, inRO, grace))
	require.True(t, env.svc.CanWriteResource(ctx, inRO, ada))
}
