package handler

import (
	"log/slog"
	"net/http"

	"scribe/internal/httputil"
	"scribe/internal/service/workspace"
)

// RetentionHandler serves the trash retention settings and the manual
// sweep trigger.
type RetentionHandler struct {
	sweeper *workspace.Sweeper
	logger  *slog.Logger
}

// NewRetentionHandler creates a retention handler
func NewRetentionHandler(sweeper *workspace.Sweeper, logger *slog.Logger) *RetentionHandler {
	return &RetentionHandler{
		sweeper: sweeper,
		logger:  logger,
	}
}

// GetRetention returns the configured retention window
// GET /api/settings/retention
func (h *RetentionHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
	days, err := h.sweeper.RetentionDays(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"retention_days": days})
}

// SetRetention updates the retention window
// PUT /api/settings/retention
func (h *RetentionHandler) SetRetention(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RetentionDays int `json:"retention_days"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sweeper.SetRetentionDays(r.Context(), req.RetentionDays); err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"retention_days": req.RetentionDays})
}

// TriggerSweep runs a sweep immediately instead of waiting for the timer
// POST /api/admin/trash/sweep
func (h *RetentionHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	if err := h.sweeper.Sweep(r.Context()); err != nil {
		respondDomainError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
