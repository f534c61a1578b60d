package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sathwik-loomiz/ai-generation/internal/generation"
)

const (
	maxMultipartMemory = 10 << 20
	maxReferenceBytes  = 10 << 20
)

type generateRequest struct {
	ProductName string `json:"productName"`
	Prompt      string `json:"prompt"`
	Adjectives  string `json:"adjectives"`
	Color       string `json:"color"`
	Count       int    `json:"count"`
}

type generateResponse struct {
	Success          bool     `json:"success"`
	GenerationID     string   `json:"generationId"`
	Images           []string `json:"images"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

// Generate accepts either a JSON body or multipart/form-data with optional
// reference image files under the referenceImages field.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeGenerateInput(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload", "")
		return
	}

	res, err := a.Generations.Create(r.Context(), *in)
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.json(w, http.StatusCreated, generateResponse{
		Success:          true,
		GenerationID:     res.GenerationID,
		Images:           res.Images,
		ProcessingTimeMs: res.ProcessingTimeMs,
	})
}

func decodeGenerateInput(r *http.Request) (*generation.CreateInput, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return decodeGenerateMultipart(r)
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &generation.CreateInput{
		ProductName: req.ProductName,
		Prompt:      req.Prompt,
		Adjectives:  req.Adjectives,
		Color:       req.Color,
		Count:       req.Count,
	}, nil
}

func decodeGenerateMultipart(r *http.Request) (*generation.CreateInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, err
	}
	count := 0
	if raw := r.FormValue("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		count = parsed
	}
	in := &generation.CreateInput{
		ProductName: r.FormValue("productName"),
		Prompt:      r.FormValue("prompt"),
		Adjectives:  r.FormValue("adjectives"),
		Color:       r.FormValue("color"),
		Count:       count,
	}
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["referenceImages"] {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(io.LimitReader(f, maxReferenceBytes))
			f.Close()
			if err != nil {
				return nil, err
			}
			in.ReferenceImages = append(in.ReferenceImages, generation.ReferenceUpload{
				Name:     fh.Filename,
				MIMEType: fh.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	}
	return in, nil
}
