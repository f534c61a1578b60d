package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sathwik-loomiz/ai-generation/internal/domain"
	"github.com/sathwik-loomiz/ai-generation/internal/imagegen"
	"github.com/sathwik-loomiz/ai-generation/internal/media"
)

const defaultGenerationTimeout = 2 * time.Minute

// fallbackProductName is used when a regeneration neither supplies a product
// name nor finds one on the record.
const fallbackProductName = "Fashion Item"

// ReferenceUpload is an uploaded reference image file.
type ReferenceUpload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// CreateInput is a top-level generation request.
type CreateInput struct {
	ProductName     string
	Prompt          string
	Adjectives      string
	Color           string
	Count           int
	ReferenceImages []ReferenceUpload
}

// RegenerateInput re-drives an existing record with a new prompt, using a
// subset of previously generated image URLs as references.
type RegenerateInput struct {
	GenerationID   string
	SelectedImages []string
	NewPrompt      string
	Count          int
	ProductName    string
}

// Result is the response payload of a finished attempt.
type Result struct {
	GenerationID     string
	Images           []string
	ProcessingTimeMs int64
}

// Service drives a generation request through its status lifecycle:
// pending -> processing -> completed/failed, with regenerations re-entering
// processing on the same record.
type Service struct {
	repo      domain.GenerationRepository
	generator imagegen.Generator
	uploader  media.Uploader
	logger    zerolog.Logger
	timeout   time.Duration
}

// NewService wires the lifecycle controller with its collaborators.
func NewService(repo domain.GenerationRepository, generator imagegen.Generator, uploader media.Uploader, logger zerolog.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &Service{
		repo:      repo,
		generator: generator,
		uploader:  uploader,
		logger:    logger,
		timeout:   timeout,
	}
}

// Create validates the request, persists a new record and drives it to a
// terminal status. By the time Create returns, status is never left at
// processing.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Result, error) {
	count, err := normalizeCount(in.Count)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return nil, domain.NewValidationError("productName", "is required")
	}
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, domain.NewValidationError("prompt", "is required")
	}

	start := time.Now()
	gen := &domain.Generation{
		ProductName: strings.TrimSpace(in.ProductName),
		Prompt:      strings.TrimSpace(in.Prompt),
		Adjectives:  strings.TrimSpace(in.Adjectives),
		Color:       strings.TrimSpace(in.Color),
		Count:       count,
		Status:      domain.GenerationStatusPending,
	}
	if err := s.repo.Create(ctx, gen); err != nil {
		return nil, fmt.Errorf("create generation record: %w", err)
	}
	id := gen.ID.Hex()
	logger := s.logger.With().Str("generation_id", id).Logger()
	logger.Info().Str("product", gen.ProductName).Int("count", count).Msg("generation request accepted")

	if err := s.transition(ctx, id, gen.Status, domain.GenerationStatusProcessing, nil, nil); err != nil {
		return nil, s.fail(ctx, logger, id, start, err)
	}

	refs := s.uploadReferences(ctx, logger, in.ReferenceImages)
	if len(refs) > 0 {
		if err := s.repo.SetReferenceImages(ctx, id, refs); err != nil {
			return nil, s.fail(ctx, logger, id, start, fmt.Errorf("store reference images: %w", err))
		}
	}

	instruction := imagegen.BuildInstruction(imagegen.InstructionInput{
		ProductName:   gen.ProductName,
		Prompt:        gen.Prompt,
		Adjectives:    gen.Adjectives,
		Color:         gen.Color,
		HasReferences: len(refs) > 0,
	})

	refURLs := make([]string, 0, len(refs))
	for _, ref := range refs {
		refURLs = append(refURLs, ref.MediaURL)
	}

	raw, err := s.generate(ctx, instruction, count, refURLs)
	if err != nil {
		return nil, s.fail(ctx, logger, id, start, err)
	}

	images := s.rehost(ctx, logger, raw, instruction, media.CategoryGeneratedImages)

	elapsed := time.Since(start).Milliseconds()
	if err := s.repo.Finalize(ctx, id, images, domain.GenerationStatusCompleted, elapsed); err != nil {
		return nil, s.fail(ctx, logger, id, start, fmt.Errorf("finalize generation: %w", err))
	}
	logger.Info().Int("images", len(images)).Int64("elapsed_ms", elapsed).Msg("generation completed")

	return &Result{GenerationID: id, Images: imageURLs(images), ProcessingTimeMs: elapsed}, nil
}

// Get returns the full generation document.
func (s *Service) Get(ctx context.Context, id string) (*domain.Generation, error) {
	return s.repo.GetByID(ctx, id)
}

// Regenerate appends exactly one lineage entry to an existing record and
// drives the record back through processing to a terminal status. It never
// creates a new top-level record.
func (s *Service) Regenerate(ctx context.Context, in RegenerateInput) (*Result, error) {
	if strings.TrimSpace(in.GenerationID) == "" {
		return nil, domain.NewValidationError("generationId", "is required")
	}
	selected := make([]string, 0, len(in.SelectedImages))
	for _, url := range in.SelectedImages {
		if trimmed := strings.TrimSpace(url); trimmed != "" {
			selected = append(selected, trimmed)
		}
	}
	if len(selected) == 0 {
		return nil, domain.NewValidationError("selectedImages", "must contain at least one image")
	}
	newPrompt := strings.TrimSpace(in.NewPrompt)
	if newPrompt == "" {
		return nil, domain.NewValidationError("newPrompt", "is required")
	}
	count, err := normalizeCount(in.Count)
	if err != nil {
		return nil, err
	}

	gen, err := s.repo.GetByID(ctx, in.GenerationID)
	if err != nil {
		return nil, err
	}
	id := gen.ID.Hex()
	logger := s.logger.With().Str("generation_id", id).Int("attempt", len(gen.Regenerations)+1).Logger()
	logger.Info().Int("selected", len(selected)).Msg("regeneration request accepted")

	start := time.Now()
	// Attempts may overlap; status tracks the most recent one, so this write
	// skips the from-state check.
	if err := s.repo.UpdateStatus(ctx, id, domain.GenerationStatusProcessing, nil, nil); err != nil {
		return nil, fmt.Errorf("update status to %s: %w", domain.GenerationStatusProcessing, err)
	}

	productName := strings.TrimSpace(in.ProductName)
	if productName == "" {
		productName = gen.ProductName
	}
	if productName == "" {
		productName = fallbackProductName
	}

	instruction := imagegen.BuildInstruction(imagegen.InstructionInput{
		ProductName:   productName,
		Prompt:        newPrompt,
		HasReferences: true,
	})

	raw, err := s.generate(ctx, instruction, count, selected)
	if err != nil {
		return nil, s.fail(ctx, logger, id, start, err)
	}

	images := s.rehost(ctx, logger, raw, instruction, media.CategoryRegeneratedImages)

	attempt := domain.RegenerationAttempt{
		Prompt:          newPrompt,
		ReferenceImages: referencesFromURLs(selected),
		GeneratedImages: images,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.AppendRegeneration(ctx, id, attempt); err != nil {
		return nil, s.fail(ctx, logger, id, start, fmt.Errorf("append regeneration: %w", err))
	}

	elapsed := time.Since(start).Milliseconds()
	if err := s.repo.UpdateStatus(ctx, id, domain.GenerationStatusCompleted, nil, &elapsed); err != nil {
		return nil, s.fail(ctx, logger, id, start, fmt.Errorf("finalize regeneration: %w", err))
	}
	logger.Info().Int("images", len(images)).Int64("elapsed_ms", elapsed).Msg("regeneration completed")

	return &Result{GenerationID: id, Images: imageURLs(images), ProcessingTimeMs: elapsed}, nil
}

// transition validates a lifecycle move and writes it through the store.
func (s *Service) transition(ctx context.Context, id string, from, to domain.GenerationStatus, errMsg *string, processingMs *int64) error {
	if !domain.ValidTransition(from, to) {
		return fmt.Errorf("invalid status transition %s -> %s", from, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to, errMsg, processingMs); err != nil {
		return fmt.Errorf("update status to %s: %w", to, err)
	}
	return nil
}

// fail moves the record to failed with the cause and elapsed time. The write
// is best-effort: if it fails the error is logged and the original cause
// still propagates, but the record must never be left at processing by a
// write that could have happened.
func (s *Service) fail(ctx context.Context, logger zerolog.Logger, id string, start time.Time, cause error) error {
	msg := cause.Error()
	elapsed := time.Since(start).Milliseconds()
	if err := s.repo.UpdateStatus(ctx, id, domain.GenerationStatusFailed, &msg, &elapsed); err != nil {
		logger.Error().Err(err).Msg("could not record failed status")
	}
	logger.Error().Err(cause).Int64("elapsed_ms", elapsed).Msg("generation attempt failed")
	return cause
}

// generate runs the provider call under the bounded timeout.
func (s *Service) generate(ctx context.Context, instruction string, count int, referenceURLs []string) ([]imagegen.GeneratedImage, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, instruction, count, referenceURLs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("image generation timed out after %s: %w", s.timeout, err)
		}
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("image generation returned no images")
	}
	return raw, nil
}

// uploadReferences persists incoming reference files. A failed upload skips
// the file and the request proceeds.
func (s *Service) uploadReferences(ctx context.Context, logger zerolog.Logger, uploads []ReferenceUpload) []domain.ReferenceImage {
	refs := make([]domain.ReferenceImage, 0, len(uploads))
	for _, up := range uploads {
		if len(up.Data) == 0 {
			continue
		}
		res, err := s.uploader.Upload(ctx, media.Payload{
			Data:     up.Data,
			MIMEType: up.MIMEType,
			Name:     up.Name,
		}, media.CategoryReferenceImages)
		if err != nil {
			logger.Warn().Err(err).Str("file", up.Name).Msg("reference image upload failed, skipping")
			continue
		}
		refs = append(refs, domain.ReferenceImage{
			OriginalName: up.Name,
			MediaURL:     res.URL,
			MediaID:      res.ID,
		})
	}
	return refs
}

// rehost persists raw provider images on the media host, preserving call
// order. When re-hosting fails the provider URL is kept with an empty media
// id so the image is not lost.
func (s *Service) rehost(ctx context.Context, logger zerolog.Logger, raw []imagegen.GeneratedImage, instruction, category string) []domain.GeneratedImage {
	images := make([]domain.GeneratedImage, 0, len(raw))
	for _, img := range raw {
		promptUsed := img.RevisedPrompt
		if promptUsed == "" {
			promptUsed = instruction
		}
		res, err := s.uploader.Upload(ctx, media.Payload{RemoteURL: img.URL}, category)
		if err != nil {
			logger.Warn().Err(err).Msg("media upload failed, keeping provider url")
			images = append(images, domain.GeneratedImage{MediaURL: img.URL, PromptUsed: promptUsed})
			continue
		}
		images = append(images, domain.GeneratedImage{MediaURL: res.URL, MediaID: res.ID, PromptUsed: promptUsed})
	}
	return images
}

func normalizeCount(count int) (int, error) {
	if count == 0 {
		return domain.MinImageCount, nil
	}
	if count < domain.MinImageCount || count > domain.MaxImageCount {
		return 0, domain.NewValidationError("count", fmt.Sprintf("must be between %d and %d", domain.MinImageCount, domain.MaxImageCount))
	}
	return count, nil
}

func imageURLs(images []domain.GeneratedImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.MediaURL)
	}
	return urls
}

func referencesFromURLs(urls []string) []domain.ReferenceImage {
	refs := make([]domain.ReferenceImage, 0, len(urls))
	for _, url := range urls {
		refs = append(refs, domain.ReferenceImage{MediaURL: url})
	}
	return refs
}
