package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sathwik-loomiz/ai-generation/internal/generation"
)

type regenerateRequest struct {
	GenerationID   string   `json:"generationId"`
	SelectedImages []string `json:"selectedImages"`
	NewPrompt      string   `json:"newPrompt"`
	Count          int      `json:"count"`
	ProductName    string   `json:"productName"`
}

func (a *App) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload", "")
		return
	}

	res, err := a.Generations.Regenerate(r.Context(), generation.RegenerateInput{
		GenerationID:   req.GenerationID,
		SelectedImages: req.SelectedImages,
		NewPrompt:      req.NewPrompt,
		Count:          req.Count,
		ProductName:    req.ProductName,
	})
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.json(w, http.StatusOK, generateResponse{
		Success:          true,
		GenerationID:     res.GenerationID,
		Images:           res.Images,
		ProcessingTimeMs: res.ProcessingTimeMs,
	})
}
