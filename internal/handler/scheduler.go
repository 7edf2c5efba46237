package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/tossit/internal/discard"
)

type SchedulerHandler struct {
	scheduler *discard.Scheduler
	logger    *slog.Logger
}

func NewSchedulerHandler(scheduler *discard.Scheduler, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, logger: logger}
}

// Status exposes the discard scheduler's process state.
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.GetStatus())
}

type forceRunRequest struct {
	BusinessID int64 `json:"business_id"`
}

// ForceRun triggers all discard checks for a business outside the timer,
// for manual testing from the admin view.
func (h *SchedulerHandler) ForceRun(w http.ResponseWriter, r *http.Request) {
	var req forceRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BusinessID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "business_id is required"})
		return
	}

	if err := h.scheduler.ForceRun(r.Context(), req.BusinessID); err != nil {
		h.logger.Error("force run scheduler", "business_id", req.BusinessID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "one or more checks failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ran"})
}
