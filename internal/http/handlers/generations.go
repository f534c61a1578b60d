package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) GetGeneration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "id required", "")
		return
	}
	gen, err := a.Generations.Get(r.Context(), id)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":    true,
		"generation": gen,
	})
}
