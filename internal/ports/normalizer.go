package ports

import (
	"context"

	"github.com/devbush/audio-transcriber/internal/domain"
)

// Normalizer converts audio the backend cannot accept into a format it can
type Normalizer interface {
	// Handles reports whether name is a format this normalizer can convert
	Handles(name string) bool

	// Extensions lists the extra extensions the normalizer accepts
	Extensions() []string

	// Normalize returns a supported file and a cleanup func. Supported inputs
	// come back unchanged with a no-op cleanup.
	Normalize(ctx context.Context, file domain.AudioFile) (domain.AudioFile, func(), error)
}
