package imagegen

import "context"

// GeneratedImage is one raw provider output before re-hosting. URL is the
// provider's temporary URL.
type GeneratedImage struct {
	URL           string
	RevisedPrompt string
}

// Generator produces concept images for a composed instruction. Results are
// ordered by call index. On partial failure it returns whatever succeeded,
// but a failure producing the first image fails the whole batch.
type Generator interface {
	Generate(ctx context.Context, prompt string, count int, referenceURLs []string) ([]GeneratedImage, error)
}
