package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Locator implements ports.AudioLocator over an afero filesystem
type Locator struct {
	fs         afero.Fs
	extensions []string
	log        zerolog.Logger
}

// NewLocator creates a locator for the supported extensions plus any extra ones
// (for example formats a normalizer can convert)
func NewLocator(fs afero.Fs, log zerolog.Logger, extra ...string) *Locator {
	exts := append([]string{}, domain.SupportedExtensions...)
	exts = append(exts, extra...)
	return &Locator{
		fs:         fs,
		extensions: exts,
		log:        log.With().Str("component", "locator").Logger(),
	}
}

// Locate walks root recursively and returns matching regular files sorted by name
func (l *Locator) Locate(root string) ([]domain.AudioFile, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, domain.NewInputError("locate", fmt.Errorf("%w: %s", domain.ErrFolderNotFound, root))
	}

	info, err := l.fs.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewInputError("locate", fmt.Errorf("%w: %s", domain.ErrFolderNotFound, root))
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewInputError("locate", fmt.Errorf("%w: %s is not a directory", domain.ErrFolderNotFound, root))
	}

	var files []domain.AudioFile
	err = afero.Walk(l.fs, abs, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			l.log.Warn().Err(walkErr).Str("path", path).Msg("skipping unreadable entry")
			if fi != nil && fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		if !domain.HasExtension(fi.Name(), l.extensions) {
			l.log.Debug().Str("path", path).Msg("skipping unsupported file")
			return nil
		}
		files = append(files, domain.AudioFile{
			Path:    path,
			Name:    fi.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	l.log.Debug().Str("root", abs).Int("files", len(files)).Msg("located audio files")
	return files, nil
}
