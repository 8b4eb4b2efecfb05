package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// UserCounter is the liveness probe contract: a real query against the
// users collection, not just a TCP ping.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type HealthHandler struct {
	Users UserCounter
}

func (h *HealthHandler) Register(r *chi.Mux) {
	r.Get("/healthz", h.health)
}

func (h *HealthHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.Users.Count(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "store unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
