package ports

import "github.com/devbush/audio-transcriber/internal/domain"

// AudioLocator finds candidate audio files under a root folder
type AudioLocator interface {
	// Locate returns matching files sorted by name. An empty result is not an error.
	Locate(root string) ([]domain.AudioFile, error)
}
