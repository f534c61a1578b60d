package handlers

import (
	"net/http"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
)

// ListProducts returns the active garment catalog. An empty catalog falls
// back to the built-in defaults so the picker is never blank.
func (a *App) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.Products.ListActive(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	if len(products) == 0 {
		products = domain.DefaultProducts()
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
	})
}
