package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guildsmith/craftbot/internal/dialog"
)

type DialogHandler struct {
	Manager *dialog.Manager
}

type dialogAdvanceReq struct {
	Input string `json:"input"`
}

func (h *DialogHandler) Register(r *chi.Mux) {
	r.Post("/dialog", h.start)
	r.Post("/dialog/{id}", h.advance)
}

func (h *DialogHandler) start(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	if caller.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing X-User-Id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sessionID, prompt, err := h.Manager.Start(ctx, caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session_id": sessionID, "prompt": prompt})
}

func (h *DialogHandler) advance(w http.ResponseWriter, r *http.Request) {
	var req dialogAdvanceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	prompt, err := h.Manager.Advance(ctx, chi.URLParam(r, "id"), req.Input)
	if errors.Is(err, dialog.ErrExpired) {
		writeJSON(w, http.StatusGone, map[string]string{"error": "dialog expired, start over"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompt": prompt})
}
