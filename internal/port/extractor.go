package port

import (
	"context"

	"belegwerk/internal/domain"
)

// VisionInput carries the rendered pages of one document for model-assisted
// extraction. Pages are PNG-encoded, in reading order.
type VisionInput struct {
	FileName string
	Pages    [][]byte
	RawText  string // deterministic tier's text, passed as additional context
}

// VisionExtractor abstracts vision-model document extraction. Implementations
// return domain.ErrVisionUnavailable when the backend cannot be reached or
// produces unusable output.
type VisionExtractor interface {
	Extract(ctx context.Context, input VisionInput) (*domain.ParsedDocument, error)
}
