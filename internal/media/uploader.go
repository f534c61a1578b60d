package media

import "context"

// Upload categories namespace assets on the media host.
const (
	CategoryReferenceImages   = "reference-images"
	CategoryGeneratedImages   = "generated-images"
	CategoryRegeneratedImages = "regenerated-images"
)

// Payload is a media payload to persist: either inline bytes or a remote URL
// the host fetches itself. RemoteURL wins when both are set.
type Payload struct {
	Data      []byte
	MIMEType  string
	Name      string
	RemoteURL string
}

// UploadResult is the stable public URL and host-side identifier of a
// persisted asset.
type UploadResult struct {
	URL string
	ID  string
}

// Uploader persists a payload under a category and returns its stable URL.
type Uploader interface {
	Upload(ctx context.Context, payload Payload, category string) (UploadResult, error)
}
