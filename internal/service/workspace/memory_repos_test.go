package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"scribe/internal/domain"
	models "scribe/internal/domain/models/workspace"
	"scribe/internal/kinds"
	"scribe/internal/storage"
)

// memFolderRepo is an in-memory FolderRepository mirroring the store
// semantics the engine relies on: guarded trash updates, active-only
// filters, and singleton system folder enforcement.
type memFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.Folder
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: make(map[string]*models.Folder)}
}

func copyFolder(f *models.Folder) *models.Folder {
	c := *f
	c.SharedWith = append([]string(nil), f.SharedWith...)
	return &c
}

func (r *memFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	if _, exists := r.folders[folder.ID]; exists {
		return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
	}
	r.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (r *memFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	return copyFolder(f), nil
}

func (r *memFolderRepo) GetActive(ctx context.Context, id string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.DeletedAt != nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", id)}
	}
	return copyFolder(f), nil
}

func (r *memFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("folder %s not found", folder.ID)}
	}
	r.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (r *memFolderRepo) listChildIDs(parentIDs []string, includeTrashed bool) []string {
	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []string
	for _, f := range r.folders {
		if f.ParentID == nil || !parents[*f.ParentID] {
			continue
		}
		if !includeTrashed && f.DeletedAt != nil {
			continue
		}
		out = append(out, f.ID)
	}
	sort.Strings(out)
	return out
}

func (r *memFolderRepo) ListChildIDs(ctx context.Context, parentIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listChildIDs(parentIDs, false), nil
}

func (r *memFolderRepo) ListChildIDsAll(ctx context.Context, parentIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listChildIDs(parentIDs, true), nil
}

func (r *memFolderRepo) ListPrivate(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID != ownerID || f.Visibility == models.VisibilityPublic || f.DeletedAt != nil {
			continue
		}
		if parentID != nil && (f.ParentID == nil || *f.ParentID != *parentID) {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) ListPublic(ctx context.Context, orgID string, parentID *string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OrgID != orgID || f.Visibility != models.VisibilityPublic || f.DeletedAt != nil {
			continue
		}
		if parentID != nil && (f.ParentID == nil || *f.ParentID != *parentID) {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) ListTrash(ctx context.Context, ownerID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID != ownerID || f.DeletedAt == nil {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *memFolderRepo) MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		f, ok := r.folders[id]
		if !ok || f.DeletedAt != nil {
			continue
		}
		at := deletedAt
		by := deletedBy
		f.DeletedAt = &at
		f.DeletedBy = &by
		f.UpdatedAt = deletedAt
		n++
	}
	return n, nil
}

func (r *memFolderRepo) Restore(ctx context.Context, id string, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.DeletedAt == nil {
		return false, nil
	}
	f.DeletedAt = nil
	f.DeletedBy = nil
	f.ParentID = nil
	f.UpdatedAt = updatedAt
	return true, nil
}

func (r *memFolderRepo) SetVisibility(ctx context.Context, ids []string, visibility models.Visibility, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		f, ok := r.folders[id]
		if !ok || f.DeletedAt != nil {
			continue
		}
		f.Visibility = visibility
		f.UpdatedAt = updatedAt
	}
	return nil
}

func (r *memFolderRepo) EnsureSystemFolder(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.OwnerID == folder.OwnerID && f.SystemType != nil && folder.SystemType != nil &&
			*f.SystemType == *folder.SystemType && f.DeletedAt == nil {
			return copyFolder(f), nil
		}
	}
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	r.folders[folder.ID] = copyFolder(folder)
	return copyFolder(folder), nil
}

func (r *memFolderRepo) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.DeletedAt == nil || f.DeletedAt.After(cutoff) {
			continue
		}
		out = append(out, *copyFolder(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Before(*out[j].DeletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memFolderRepo) DeleteRow(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.folders, id)
	return nil
}

// memResourceRepo is the in-memory ResourceRepository counterpart.
type memResourceRepo struct {
	mu        sync.Mutex
	resources map[string]*models.Resource
}

func newMemResourceRepo() *memResourceRepo {
	return &memResourceRepo{resources: make(map[string]*models.Resource)}
}

func copyResource(res *models.Resource) *models.Resource {
	c := *res
	return &c
}

func (r *memResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if resource.ID == "" {
		resource.ID = uuid.NewString()
	}
	if _, exists := r.resources[resource.ID]; exists {
		return fmt.Errorf("resource %q: %w", resource.Title, domain.ErrConflict)
	}
	r.resources[resource.ID] = copyResource(resource)
	return nil
}

func (r *memResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("resource %s not found", id)}
	}
	return copyResource(res), nil
}

func inFolders(res *models.Resource, folderIDs []string) bool {
	if res.FolderID == nil {
		return false
	}
	for _, id := range folderIDs {
		if *res.FolderID == id {
			return true
		}
	}
	return false
}

func (r *memResourceRepo) ListForeignActiveInFolders(ctx context.Context, folderIDs []string, notOwnerID string) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	for _, res := range r.resources {
		if res.OwnerID == notOwnerID || res.DeletedAt != nil || !inFolders(res, folderIDs) {
			continue
		}
		out = append(out, *copyResource(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memResourceRepo) ListOwnedActiveInFolder(ctx context.Context, folderID, ownerID string) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	for _, res := range r.resources {
		if res.OwnerID != ownerID || res.DeletedAt != nil || !inFolders(res, []string{folderID}) {
			continue
		}
		out = append(out, *copyResource(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memResourceRepo) ListOwnedInFolders(ctx context.Context, folderIDs []string, ownerID string) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	for _, res := range r.resources {
		if res.OwnerID != ownerID || !inFolders(res, folderIDs) {
			continue
		}
		out = append(out, *copyResource(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memResourceRepo) Relocate(ctx context.Context, id string, folderID *string, visibility models.Visibility, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("resource %s not found", id)}
	}
	res.FolderID = folderID
	res.Visibility = visibility
	res.UpdatedAt = updatedAt
	return nil
}

func (r *memResourceRepo) MarkDeleted(ctx context.Context, ids []string, deletedBy string, deletedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		res, ok := r.resources[id]
		if !ok || res.DeletedAt != nil {
			continue
		}
		at := deletedAt
		by := deletedBy
		res.DeletedAt = &at
		res.DeletedBy = &by
		res.UpdatedAt = deletedAt
		n++
	}
	return n, nil
}

func (r *memResourceRepo) RestoreOwnedInFolder(ctx context.Context, folderID, ownerID string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.resources {
		if res.OwnerID != ownerID || res.DeletedAt == nil || !inFolders(res, []string{folderID}) {
			continue
		}
		res.DeletedAt = nil
		res.DeletedBy = nil
		res.UpdatedAt = updatedAt
	}
	return nil
}

func (r *memResourceRepo) SetVisibilityInFolders(ctx context.Context, folderIDs []string, visibility models.Visibility, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.resources {
		if res.DeletedAt != nil || !inFolders(res, folderIDs) {
			continue
		}
		res.Visibility = visibility
		res.UpdatedAt = updatedAt
	}
	return nil
}

func (r *memResourceRepo) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	for _, res := range r.resources {
		if res.DeletedAt == nil || res.DeletedAt.After(cutoff) {
			continue
		}
		out = append(out, *copyResource(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.Before(*out[j].DeletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memResourceRepo) DeleteRow(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resources, id)
	return nil
}

// memAttachmentRepo stores attachment rows keyed by (kind, resource id).
type memAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[string]*models.Attachment
}

func newMemAttachmentRepo() *memAttachmentRepo {
	return &memAttachmentRepo{attachments: make(map[string]*models.Attachment)}
}

func (r *memAttachmentRepo) Create(ctx context.Context, attachment *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	c := *attachment
	r.attachments[attachment.ID] = &c
	return nil
}

func (r *memAttachmentRepo) ListByResource(ctx context.Context, kind, resourceID string) ([]models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Attachment
	for _, a := range r.attachments {
		if a.ResourceKind == kind && a.ResourceID == resourceID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAttachmentRepo) DeleteByResource(ctx context.Context, kind, resourceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.attachments {
		if a.ResourceKind == kind && a.ResourceID == resourceID {
			delete(r.attachments, id)
		}
	}
	return nil
}

// memSettingsRepo holds the retention setting.
type memSettingsRepo struct {
	mu   sync.Mutex
	days *int
}

func (r *memSettingsRepo) GetRetentionDays(ctx context.Context, defaultDays int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.days == nil {
		return defaultDays, nil
	}
	return *r.days, nil
}

func (r *memSettingsRepo) SetRetentionDays(ctx context.Context, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = &days
	return nil
}

// testEnv bundles an engine over the in-memory stores.
type testEnv struct {
	svc         *Service
	folders     *memFolderRepo
	resources   *memResourceRepo
	attachments *memAttachmentRepo
	blobs       *storage.MemoryBlobStore
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		folders:     newMemFolderRepo(),
		resources:   newMemResourceRepo(),
		attachments: newMemAttachmentRepo(),
		blobs:       storage.NewMemoryBlobStore(),
		now:         time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	kind := kinds.Kind{
		Name:                "meeting",
		DisplayName:         "Meeting",
		FolderTable:         "meeting_folders",
		ResourceTable:       "meetings",
		RecoveredFolderName: "Recovered meetings",
	}
	env.svc = NewService(kind, env.folders, env.resources, env.attachments, env.blobs, slog.New(slog.DiscardHandler)).
		WithClock(func() time.Time { return env.now })
	return env
}

func (e *testEnv) addFolder(t *testing.T, f models.Folder) *models.Folder {
	t.Helper()
	if f.SharedWith == nil {
		f.SharedWith = []string{}
	}
	if f.Visibility == "" {
		f.Visibility = models.VisibilityPrivate
	}
	if f.AccessType == "" {
		f.AccessType = models.AccessReadonly
	}
	f.CreatedAt = e.now
	f.UpdatedAt = e.now
	if err := e.folders.Create(context.Background(), &f); err != nil {
		t.Fatalf("add folder: %v", err)
	}
	return &f
}

func (e *testEnv) addResource(t *testing.T, res models.Resource) *models.Resource {
	t.Helper()
	if res.Visibility == "" {
		res.Visibility = models.VisibilityPrivate
	}
	res.CreatedAt = e.now
	res.UpdatedAt = e.now
	if err := e.resources.Create(context.Background(), &res); err != nil {
		t.Fatalf("add resource: %v", err)
	}
	return &res
}
