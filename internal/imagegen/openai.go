package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

// OpenAIOptions configures the OpenAI image generator.
type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OpenAIGenerator implements Generator on OpenAI's image API. The model
// renders one image per call, so counts above one are served by repeated
// calls with a variation marker appended to the prompt.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ImageModel
	logger zerolog.Logger
}

// NewOpenAIGenerator creates an image generator for the configured model.
func NewOpenAIGenerator(opts OpenAIOptions) *OpenAIGenerator {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		// Retry policy belongs to the lifecycle controller.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	model := openai.ImageModel(strings.TrimSpace(opts.Model))
	if model == "" {
		model = openai.ImageModelDallE3
	}
	return &OpenAIGenerator{
		client: openai.NewClient(reqOpts...),
		model:  model,
		logger: opts.Logger,
	}
}

// Generate produces count images for the prompt. A failure on the first call
// fails the batch; failures on later calls are logged and skipped so the
// caller still receives the images that succeeded. referenceURLs only shape
// the instruction upstream; the image API does not accept them directly.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, count int, referenceURLs []string) ([]GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New("openai: prompt is required")
	}
	if count < 1 {
		count = 1
	}

	g.logger.Debug().
		Int("count", count).
		Int("reference_urls", len(referenceURLs)).
		Msg("requesting image generation")

	images := make([]GeneratedImage, 0, count)
	for i := 0; i < count; i++ {
		callPrompt := prompt
		if i > 0 {
			callPrompt = fmt.Sprintf("%s (variation %d)", prompt, i+1)
		}
		img, err := g.generateOne(ctx, callPrompt)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("openai: generate image: %w", err)
			}
			g.logger.Warn().Err(err).Int("variation", i+1).Msg("additional image failed, continuing with partial batch")
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

func (g *OpenAIGenerator) generateOne(ctx context.Context, prompt string) (GeneratedImage, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  prompt,
		Model:   g.model,
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize1024x1024,
		Quality: openai.ImageGenerateParamsQualityHD,
		Style:   openai.ImageGenerateParamsStyleNatural,
	})
	if err != nil {
		return GeneratedImage{}, err
	}
	if resp == nil || len(resp.Data) == 0 {
		return GeneratedImage{}, errors.New("empty image response")
	}
	data := resp.Data[0]
	if strings.TrimSpace(data.URL) == "" {
		return GeneratedImage{}, errors.New("missing image url in response")
	}
	return GeneratedImage{URL: data.URL, RevisedPrompt: data.RevisedPrompt}, nil
}
