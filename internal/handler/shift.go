package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/tossit/internal/store"
	ws "github.com/dukerupert/tossit/internal/websocket"
)

type ShiftHandler struct {
	users  *store.UserStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewShiftHandler(users *store.UserStore, hub *ws.Hub, logger *slog.Logger) *ShiftHandler {
	return &ShiftHandler{users: users, hub: hub, logger: logger}
}

type shiftRequest struct {
	UserID int64 `json:"user_id"`
}

// Start clocks a user in.
func (h *ShiftHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// End clocks a user out, the same operation the midnight auto-end performs.
func (h *ShiftHandler) End(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *ShiftHandler) toggle(w http.ResponseWriter, r *http.Request, start bool) {
	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	user, err := h.users.GetByID(req.UserID)
	if err != nil {
		h.logger.Error("get user", "user_id", req.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get user"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	action := "ended"
	if start {
		err = h.users.StartShift(user.ID)
		action = "started"
	} else {
		err = h.users.EndShift(user.ID)
	}
	if err != nil {
		h.logger.Error("toggle shift", "user_id", user.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update shift"})
		return
	}

	h.hub.Broadcast(ws.NewMessage("shift", action, user.ID, user.BusinessID, map[string]any{
		"user_name": user.Name,
	}))
	writeJSON(w, http.StatusOK, map[string]string{"status": action})
}
