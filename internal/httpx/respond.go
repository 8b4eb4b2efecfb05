package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/guildsmith/craftbot/internal/guild"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error kinds onto HTTP codes. Anything
// unrecognized is an infrastructure failure and never crashes the request
// loop.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, guild.ErrValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, guild.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, guild.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "store unavailable"})
	}
}

// actorFrom trusts the gateway headers: the chat platform already
// authenticated the member and resolved their roles.
func actorFrom(r *http.Request) guild.Actor {
	id := strings.TrimSpace(r.Header.Get("X-User-Id"))
	var roles []string
	for _, part := range strings.Split(r.Header.Get("X-User-Roles"), ",") {
		if t := strings.TrimSpace(part); t != "" {
			roles = append(roles, t)
		}
	}
	return guild.Resolve(id, roles)
}
