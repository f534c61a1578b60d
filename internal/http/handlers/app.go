package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
	"github.com/sathwik-loomiz/ai-generation/internal/generation"
)

// GenerationService is the lifecycle surface the HTTP layer drives.
type GenerationService interface {
	Create(ctx context.Context, in generation.CreateInput) (*generation.Result, error)
	Get(ctx context.Context, id string) (*domain.Generation, error)
	Regenerate(ctx context.Context, in generation.RegenerateInput) (*generation.Result, error)
}

type App struct {
	Logger      zerolog.Logger
	Generations GenerationService
	Products    domain.ProductRepository
}

func NewApp(logger zerolog.Logger, generations GenerationService, products domain.ProductRepository) *App {
	return &App{Logger: logger, Generations: generations, Products: products}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message, details string) {
	body := map[string]any{
		"success": false,
		"error":   message,
	}
	if details != "" {
		body["details"] = details
	}
	a.json(w, code, body)
}

// respondError maps domain errors onto HTTP statuses. Internal failures keep
// a generic top-level message; the cause goes into details and the log.
func (a *App) respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.error(w, http.StatusBadRequest, verr.Error(), "")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "generation not found", "")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "failed to process generation request", err.Error())
	}
}
