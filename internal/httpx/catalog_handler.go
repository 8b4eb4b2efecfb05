package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guildsmith/craftbot/internal/guild"
)

type CatalogHandler struct {
	Catalog guild.Catalog
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/catalog/categories", h.categories)
	r.Get("/catalog/categories/{category}/types", h.types)
	r.Get("/catalog/recipes", h.recipes)
	r.Get("/catalog/recipes/{id}", h.recipe)
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cats, err := h.Catalog.Categories(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (h *CatalogHandler) types(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	types, err := h.Catalog.Types(ctx, chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

func (h *CatalogHandler) recipes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := r.URL.Query()
	recipes, err := h.Catalog.ByCategoryAndType(ctx, q.Get("category"), q.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (h *CatalogHandler) recipe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rec, err := h.Catalog.ByRecipeID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
