package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
	"github.com/sathwik-loomiz/ai-generation/internal/generation"
)

// stubGenerations delegates to func fields so each test scripts the service.
type stubGenerations struct {
	createFn     func(ctx context.Context, in generation.CreateInput) (*generation.Result, error)
	getFn        func(ctx context.Context, id string) (*domain.Generation, error)
	regenerateFn func(ctx context.Context, in generation.RegenerateInput) (*generation.Result, error)
}

func (s *stubGenerations) Create(ctx context.Context, in generation.CreateInput) (*generation.Result, error) {
	return s.createFn(ctx, in)
}

func (s *stubGenerations) Get(ctx context.Context, id string) (*domain.Generation, error) {
	return s.getFn(ctx, id)
}

func (s *stubGenerations) Regenerate(ctx context.Context, in generation.RegenerateInput) (*generation.Result, error) {
	return s.regenerateFn(ctx, in)
}

type stubProducts struct {
	listFn func(ctx context.Context) ([]domain.Product, error)
}

func (s *stubProducts) ListActive(ctx context.Context) ([]domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProducts) ReplaceAll(context.Context, []domain.Product) error { return nil }

func newTestApp(gens GenerationService, products domain.ProductRepository) *App {
	return NewApp(zerolog.Nop(), gens, products)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestGenerateJSON(t *testing.T) {
	var got generation.CreateInput
	app := newTestApp(&stubGenerations{
		createFn: func(_ context.Context, in generation.CreateInput) (*generation.Result, error) {
			got = in
			return &generation.Result{
				GenerationID:     "abc123",
				Images:           []string{"https://media.test/a.png"},
				ProcessingTimeMs: 1500,
			}, nil
		},
	}, nil)

	payload := `{"productName":"Hoodie","prompt":"streetwear","adjectives":"bold","color":"black","count":2}`
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got.ProductName != "Hoodie" || got.Prompt != "streetwear" || got.Count != 2 {
		t.Fatalf("input = %+v", got)
	}
	body := decodeBody(t, rec)
	if body["generationId"] != "abc123" {
		t.Fatalf("generationId = %v", body["generationId"])
	}
	if body["success"] != true {
		t.Fatalf("success = %v", body["success"])
	}
}

func TestGenerateMultipart(t *testing.T) {
	var got generation.CreateInput
	app := newTestApp(&stubGenerations{
		createFn: func(_ context.Context, in generation.CreateInput) (*generation.Result, error) {
			got = in
			return &generation.Result{GenerationID: "abc123", Images: []string{"u"}}, nil
		},
	}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("productName", "Dress")
	_ = mw.WriteField("prompt", "summer linen")
	_ = mw.WriteField("count", "3")
	fw, _ := mw.CreateFormFile("referenceImages", "ref.png")
	_, _ = fw.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if got.ProductName != "Dress" || got.Count != 3 {
		t.Fatalf("input = %+v", got)
	}
	if len(got.ReferenceImages) != 1 || got.ReferenceImages[0].Name != "ref.png" {
		t.Fatalf("references = %+v", got.ReferenceImages)
	}
	if len(got.ReferenceImages[0].Data) != 4 {
		t.Fatalf("reference data = %d bytes", len(got.ReferenceImages[0].Data))
	}
}

func TestGenerateBadPayload(t *testing.T) {
	app := newTestApp(&stubGenerations{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateValidationError(t *testing.T) {
	app := newTestApp(&stubGenerations{
		createFn: func(context.Context, generation.CreateInput) (*generation.Result, error) {
			return nil, domain.NewValidationError("count", "must be between 1 and 6")
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"productName":"x","prompt":"y","count":9}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(body["error"].(string), "count") {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestGenerateInternalErrorKeepsGenericMessage(t *testing.T) {
	app := newTestApp(&stubGenerations{
		createFn: func(context.Context, generation.CreateInput) (*generation.Result, error) {
			return nil, errors.New("mongo: connection reset by host 10.0.0.3")
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"productName":"x","prompt":"y"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Generate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if strings.Contains(body["error"].(string), "mongo") {
		t.Fatalf("internal detail in top-level error: %v", body["error"])
	}
	if !strings.Contains(body["details"].(string), "mongo") {
		t.Fatalf("details = %v, want cause", body["details"])
	}
}

func TestGetGeneration(t *testing.T) {
	app := newTestApp(&stubGenerations{
		getFn: func(_ context.Context, id string) (*domain.Generation, error) {
			if id != "abc123" {
				return nil, domain.ErrNotFound
			}
			return &domain.Generation{ProductName: "Hoodie", Status: domain.GenerationStatusCompleted}, nil
		},
	}, nil)

	r := chi.NewRouter()
	r.Get("/v1/generations/{id}", app.GetGeneration)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/generations/abc123", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	gen := body["generation"].(map[string]any)
	if gen["status"] != "completed" {
		t.Fatalf("status = %v", gen["status"])
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/generations/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRegenerateHandler(t *testing.T) {
	var got generation.RegenerateInput
	app := newTestApp(&stubGenerations{
		regenerateFn: func(_ context.Context, in generation.RegenerateInput) (*generation.Result, error) {
			got = in
			return &generation.Result{GenerationID: in.GenerationID, Images: []string{"u"}}, nil
		},
	}, nil)

	payload := `{"generationId":"abc123","selectedImages":["https://media.test/a.png"],"newPrompt":"darker","count":2}`
	req := httptest.NewRequest(http.MethodPost, "/v1/regenerate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Regenerate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.GenerationID != "abc123" || got.NewPrompt != "darker" || len(got.SelectedImages) != 1 {
		t.Fatalf("input = %+v", got)
	}
}

func TestRegenerateHandlerNotFound(t *testing.T) {
	app := newTestApp(&stubGenerations{
		regenerateFn: func(context.Context, generation.RegenerateInput) (*generation.Result, error) {
			return nil, domain.ErrNotFound
		},
	}, nil)

	payload := `{"generationId":"missing","selectedImages":["u"],"newPrompt":"p"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/regenerate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Regenerate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListProducts(t *testing.T) {
	app := newTestApp(nil, &stubProducts{
		listFn: func(context.Context) ([]domain.Product, error) {
			return []domain.Product{{Name: "Hoodie", Category: "hoodie", IsActive: true}}, nil
		},
	})

	rec := httptest.NewRecorder()
	app.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	products := body["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("products = %d, want 1", len(products))
	}
}

func TestListProductsFallsBackToDefaults(t *testing.T) {
	app := newTestApp(nil, &stubProducts{
		listFn: func(context.Context) ([]domain.Product, error) { return nil, nil },
	})

	rec := httptest.NewRecorder()
	app.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	products := body["products"].([]any)
	if len(products) != len(domain.DefaultProducts()) {
		t.Fatalf("products = %d, want %d", len(products), len(domain.DefaultProducts()))
	}
}
