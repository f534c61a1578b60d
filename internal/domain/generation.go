package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationStatus enumerates the generation lifecycle states.
type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// ValidTransition reports whether a generation may move from one status to
// another. Terminal states only re-enter processing when a regeneration
// attempt restarts the pipeline; nothing ever goes back to pending.
func ValidTransition(from, to GenerationStatus) bool {
	switch from {
	case GenerationStatusPending:
		return to == GenerationStatusProcessing
	case GenerationStatusProcessing:
		return to == GenerationStatusCompleted || to == GenerationStatusFailed
	case GenerationStatusCompleted, GenerationStatusFailed:
		return to == GenerationStatusProcessing
	}
	return false
}

// Image count bounds enforced at the request boundary.
const (
	MinImageCount = 1
	MaxImageCount = 6
)

// ReferenceImage is an input image persisted on the media host.
type ReferenceImage struct {
	OriginalName string `bson:"originalName,omitempty" json:"originalName,omitempty"`
	MediaURL     string `bson:"mediaUrl" json:"mediaUrl"`
	MediaID      string `bson:"mediaId,omitempty" json:"mediaId,omitempty"`
}

// GeneratedImage is one produced concept image. MediaID is empty when
// re-hosting failed and MediaURL still points at the provider's temporary URL.
type GeneratedImage struct {
	MediaURL   string `bson:"mediaUrl" json:"mediaUrl"`
	MediaID    string `bson:"mediaId,omitempty" json:"mediaId,omitempty"`
	PromptUsed string `bson:"promptUsed,omitempty" json:"promptUsed,omitempty"`
}

// RegenerationAttempt is one entry in a generation's lineage. Entries are
// append-only; insertion order is chronological and display order.
type RegenerationAttempt struct {
	Prompt          string           `bson:"prompt" json:"prompt"`
	ReferenceImages []ReferenceImage `bson:"referenceImages" json:"referenceImages"`
	GeneratedImages []GeneratedImage `bson:"generatedImages" json:"generatedImages"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
}

// Generation is the persisted record for one top-level generation request and
// its regeneration lineage. The id never changes; regenerations append to the
// same document. Status reflects the most recent attempt.
type Generation struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	ProductName      string                `bson:"productName" json:"productName"`
	Prompt           string                `bson:"prompt" json:"prompt"`
	Adjectives       string                `bson:"adjectives,omitempty" json:"adjectives,omitempty"`
	Color            string                `bson:"color,omitempty" json:"color,omitempty"`
	Count            int                   `bson:"count" json:"count"`
	ReferenceImages  []ReferenceImage      `bson:"referenceImages" json:"referenceImages"`
	GeneratedImages  []GeneratedImage      `bson:"generatedImages" json:"generatedImages"`
	Status           GenerationStatus      `bson:"status" json:"status"`
	Error            string                `bson:"error,omitempty" json:"error,omitempty"`
	ProcessingTimeMs int64                 `bson:"processingTimeMs,omitempty" json:"processingTimeMs,omitempty"`
	Regenerations    []RegenerationAttempt `bson:"regenerations" json:"regenerations"`
	CreatedAt        time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time             `bson:"updatedAt" json:"updatedAt"`
}
