package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guildsmith/craftbot/internal/guild"
)

// InventoryStore is the slice of the ledger the handlers need.
type InventoryStore interface {
	Adjust(ctx context.Context, itemName string, delta int) (guild.AdjustResult, int, error)
	SetExact(ctx context.Context, itemName string, newQuantity int) (guild.AdjustResult, error)
	ListAll(ctx context.Context) ([]guild.InventoryEntry, error)
	SearchNames(ctx context.Context, query string, onlyInStock bool) ([]string, error)
}

type InventoryHandler struct {
	Store InventoryStore
}

type inventoryAdjustReq struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"cantidad"`
}

func (h *InventoryHandler) Register(r *chi.Mux) {
	r.Get("/inventory", h.list)
	r.Get("/inventory/search", h.search)
	r.Post("/inventory/add", h.add)
	r.Post("/inventory/withdraw", h.withdraw)
	r.Post("/inventory/set", h.set)
}

// Every stock operation is gated on holding a craft role, matching the
// order management commands.
func craftRoleRequired(w http.ResponseWriter, r *http.Request) (guild.Actor, bool) {
	caller := actorFrom(r)
	if !caller.Authorized() {
		writeError(w, guild.ErrUnauthorized)
		return guild.Actor{}, false
	}
	return caller, true
}

func decodeAdjust(w http.ResponseWriter, r *http.Request) (inventoryAdjustReq, bool) {
	var req inventoryAdjustReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return req, false
	}
	req.ItemName = strings.TrimSpace(req.ItemName)
	if req.ItemName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing item_name"})
		return req, false
	}
	return req, true
}

func (h *InventoryHandler) add(w http.ResponseWriter, r *http.Request) {
	if _, ok := craftRoleRequired(w, r); !ok {
		return
	}
	req, ok := decodeAdjust(w, r)
	if !ok {
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity to add must be positive"})
		return
	}
	h.adjust(w, r, req.ItemName, req.Quantity)
}

func (h *InventoryHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	if _, ok := craftRoleRequired(w, r); !ok {
		return
	}
	req, ok := decodeAdjust(w, r)
	if !ok {
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity to withdraw must be positive"})
		return
	}
	h.adjust(w, r, req.ItemName, -req.Quantity)
}

func (h *InventoryHandler) adjust(w http.ResponseWriter, r *http.Request, itemName string, delta int) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, remaining, err := h.Store.Adjust(ctx, itemName, delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item_name": itemName,
		"result":    result,
		"quantity":  remaining,
	})
}

func (h *InventoryHandler) set(w http.ResponseWriter, r *http.Request) {
	if _, ok := craftRoleRequired(w, r); !ok {
		return
	}
	req, ok := decodeAdjust(w, r)
	if !ok {
		return
	}
	if req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity cannot be negative; use 0 to remove the item"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.Store.SetExact(ctx, req.ItemName, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"item_name": req.ItemName,
		"result":    result,
		"quantity":  req.Quantity,
	})
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	if _, ok := craftRoleRequired(w, r); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.Store.ListAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h *InventoryHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	onlyInStock := r.URL.Query().Get("in_stock") == "true"
	names, err := h.Store.SearchNames(ctx, r.URL.Query().Get("q"), onlyInStock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"names": names})
}
