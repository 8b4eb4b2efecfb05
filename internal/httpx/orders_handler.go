package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/guildsmith/craftbot/internal/guild"
	"github.com/guildsmith/craftbot/internal/redisx"
)

type OrdersHandler struct {
	Engine *guild.Engine
	Redis  *redis.Client
}

type createOrderReq struct {
	RecipeID string `json:"recipe_id"`
	Level    string `json:"level"`
	Quality  string `json:"quality"`
	Quantity int    `json:"cantidad"`
}

type assignOrderReq struct {
	AssigneeID         string `json:"asignado_a_id"`
	AssigneeProfession string `json:"oficio"`
}

type orderView struct {
	guild.Order
	Display string `json:"display"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/mine", h.mine)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders/{id}/assign", h.assign)
	r.Post("/orders/{id}/complete", h.complete)
	r.Post("/orders/{id}/pickup", h.pickup)
	r.Get("/roles/worker", h.workerRole)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	if caller.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing X-User-Id"})
		return
	}
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.Create(ctx, caller.ID, guild.Selection{
		RecipeID: req.RecipeID,
		Level:    req.Level,
		Quality:  req.Quality,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusCreated, toView(o))
}

func (h *OrdersHandler) assign(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	var req assignOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.Assign(ctx, caller, chi.URLParam(r, "id"), req.AssigneeID, req.AssigneeProfession)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, toView(o))
}

func (h *OrdersHandler) complete(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.Complete(ctx, caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, toView(o))
}

func (h *OrdersHandler) pickup(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	if caller.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing X-User-Id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.Pickup(ctx, caller.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, toView(o))
}

// list is the role-driven view: supervisors get the open backlog of their
// profession, workers their own open assignments.
func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Engine.OrdersView(ctx, caller)
	if err != nil {
		writeError(w, err)
		return
	}
	title := fmt.Sprintf("Open assignments for %s", caller.ID)
	if caller.IsSupervisor() {
		title = fmt.Sprintf("Open %s orders", caller.Profession)
	}
	writeJSON(w, http.StatusOK, map[string]any{"title": title, "orders": toViews(orders)})
}

func (h *OrdersHandler) mine(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	if caller.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing X-User-Id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Engine.MyOrders(ctx, caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": toViews(orders)})
}

// get serves the order status from the Redis cache when fresh, falling back
// to the store.
func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	status, err := h.Engine.OrderStatus(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	body := map[string]any{"estatus": status}
	if h.Redis != nil {
		b, _ := json.Marshal(body)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, body)
}

// workerRole tells a supervisor which guild role their artisan candidates
// must hold.
func (h *OrdersHandler) workerRole(w http.ResponseWriter, r *http.Request) {
	caller := actorFrom(r)
	if !caller.Authorized() {
		writeError(w, guild.ErrUnauthorized)
		return
	}
	role, ok := guild.WorkerRole(caller.Profession)
	if !ok {
		writeError(w, guild.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": role, "oficio": caller.Profession})
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o guild.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	b, _ := json.Marshal(map[string]any{"estatus": o.Status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func toView(o guild.Order) orderView {
	return orderView{
		Order: o,
		Display: fmt.Sprintf("%s %s | %s (%s) x%d | %s",
			o.Status.Emoji(), o.ID, o.ItemName, o.Quality, o.Quantity, o.Status),
	}
}

func toViews(orders []guild.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toView(o))
	}
	return out
}
