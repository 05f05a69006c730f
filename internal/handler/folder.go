package handler

import (
	"log/slog"
	"net/http"

	models "scribe/internal/domain/models/workspace"
	"scribe/internal/httputil"
	"scribe/internal/service/workspace"
)

// FolderHandler serves the folder lifecycle routes for every kind; the
// {kind} path segment selects the engine.
type FolderHandler struct {
	engines map[string]*workspace.Service
	logger  *slog.Logger
}

// NewFolderHandler creates a folder handler over the per-kind engines.
func NewFolderHandler(engines map[string]*workspace.Service, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		engines: engines,
		logger:  logger,
	}
}

func (h *FolderHandler) engine(w http.ResponseWriter, r *http.Request) (*workspace.Service, models.Principal, bool) {
	principal, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return nil, models.Principal{}, false
	}

	kind := r.PathValue("kind")
	engine, ok := h.engines[kind]
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "unknown resource kind")
		return nil, models.Principal{}, false
	}

	return engine, principal, true
}

// CreateFolder creates a new folder
// POST /api/{kind}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req workspace.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := engine.CreateFolder(r.Context(), principal, &req)
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder the caller may read
// GET /api/{kind}/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	folder, err := engine.GetFolder(r.Context(), principal, r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ListFolders lists one tab of folders
// GET /api/{kind}/folders?tab=private|public|trash&parent_id=...
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	tab := models.ListTab(r.URL.Query().Get("tab"))
	if tab == "" {
		tab = models.TabPrivate
	}

	var parentID *string
	if p := r.URL.Query().Get("parent_id"); p != "" {
		parentID = &p
	}

	folders, err := engine.ListFolders(r.Context(), principal, tab, parentID)
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folders": folders,
		"total":   len(folders),
	})
}

// UpdateFolder applies a partial update
// PATCH /api/{kind}/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req workspace.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := engine.UpdateFolder(r.Context(), principal, r.PathValue("id"), &req)
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ShareFolder makes a folder org-visible
// POST /api/{kind}/folders/{id}/share
func (h *FolderHandler) ShareFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req workspace.ShareFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := engine.ShareFolder(r.Context(), principal, r.PathValue("id"), &req)
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// UnshareFolder reverts a folder to private
// POST /api/{kind}/folders/{id}/unshare
func (h *FolderHandler) UnshareFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	folder, err := engine.UnshareFolder(r.Context(), principal, r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// MoveFolder reparents a folder; a null or absent parent_id moves to root
// POST /api/{kind}/folders/{id}/move
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req struct {
		ParentID httputil.OptionalString `json:"parent_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := engine.MoveFolder(r.Context(), principal, r.PathValue("id"), req.ParentID.Value)
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// SoftDeleteFolder moves a folder to the trash
// DELETE /api/{kind}/folders/{id}
func (h *FolderHandler) SoftDeleteFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	if err := engine.SoftDeleteFolder(r.Context(), principal, r.PathValue("id")); err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreFolder brings a folder back from the trash
// POST /api/{kind}/folders/{id}/restore
func (h *FolderHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	folder, err := engine.RestoreFolder(r.Context(), principal, r.PathValue("id"))
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// PermanentDeleteFolder purges a trashed folder
// DELETE /api/{kind}/folders/{id}/permanent
func (h *FolderHandler) PermanentDeleteFolder(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	if err := engine.PermanentDeleteFolder(r.Context(), principal, r.PathValue("id")); err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CascadeVisibility sets visibility on a folder and its whole subtree
// POST /api/{kind}/folders/{id}/visibility
func (h *FolderHandler) CascadeVisibility(w http.ResponseWriter, r *http.Request) {
	engine, principal, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req struct {
		Visibility models.Visibility `json:"visibility"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := engine.CascadeVisibility(r.Context(), principal, r.PathValue("id"), req.Visibility); err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck responds 200 when the server is up
// GET /health
func (h *FolderHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
