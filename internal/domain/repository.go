package domain

import "context"

// GenerationRepository defines persistence for generation records. All writes
// address a single record and must not expose partial state; AppendRegeneration
// must be atomic so concurrent appends never lose lineage entries.
type GenerationRepository interface {
	Create(ctx context.Context, g *Generation) error
	GetByID(ctx context.Context, id string) (*Generation, error)
	SetReferenceImages(ctx context.Context, id string, refs []ReferenceImage) error
	Finalize(ctx context.Context, id string, images []GeneratedImage, status GenerationStatus, processingMs int64) error
	UpdateStatus(ctx context.Context, id string, status GenerationStatus, errMsg *string, processingMs *int64) error
	AppendRegeneration(ctx context.Context, id string, attempt RegenerationAttempt) error
}

// ProductRepository defines access to the garment catalog.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]Product, error)
	ReplaceAll(ctx context.Context, products []Product) error
}
