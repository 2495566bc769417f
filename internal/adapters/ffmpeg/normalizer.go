package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/rs/zerolog"
)

// ConvertibleExtensions are formats the remote API rejects but ffmpeg can turn into mp3
var ConvertibleExtensions = []string{".aac", ".aiff", ".aif", ".amr", ".opus", ".wma", ".3gp"}

// Normalizer implements ports.Normalizer by shelling out to ffmpeg
type Normalizer struct {
	configured string
	binPath    string
	tmpRoot    string
	log        zerolog.Logger
}

// NewNormalizer creates a normalizer. An empty binPath searches the bundled
// bin directory and then PATH.
func NewNormalizer(binPath string, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		configured: binPath,
		log:        log.With().Str("component", "ffmpeg").Logger(),
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (n *Normalizer) findBinary() string {
	if n.configured != "" {
		if _, err := os.Stat(n.configured); err == nil {
			return n.configured
		}
		return ""
	}

	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}
	return ""
}

// BinaryPath returns the resolved ffmpeg path, or "" when none was found
func (n *Normalizer) BinaryPath() string {
	if n.binPath == "" {
		n.binPath = n.findBinary()
	}
	return n.binPath
}

func (n *Normalizer) IsAvailable() bool {
	return n.BinaryPath() != ""
}

// Version returns the first line of `ffmpeg -version`
func (n *Normalizer) Version(ctx context.Context) (string, error) {
	bin := n.BinaryPath()
	if bin == "" {
		return "", domain.ErrFFmpegNotFound
	}
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg -version failed: %w", err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

func (n *Normalizer) Handles(name string) bool {
	return domain.HasExtension(name, ConvertibleExtensions)
}

func (n *Normalizer) Extensions() []string {
	return ConvertibleExtensions
}

// Normalize converts file to a temporary mp3. The returned cleanup removes it.
func (n *Normalizer) Normalize(ctx context.Context, file domain.AudioFile) (domain.AudioFile, func(), error) {
	if domain.IsSupportedAudio(file.Name) {
		return file, func() {}, nil
	}
	if !n.Handles(file.Name) {
		return domain.AudioFile{}, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, file.Ext())
	}
	bin := n.BinaryPath()
	if bin == "" {
		return domain.AudioFile{}, nil, fmt.Errorf("%w: cannot convert %s", domain.ErrFFmpegNotFound, file.Name)
	}

	dir, err := os.MkdirTemp(n.tmpRoot, "audio-transcriber-")
	if err != nil {
		return domain.AudioFile{}, nil, fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			n.log.Warn().Err(err).Str("dir", dir).Msg("failed to remove converted file")
		}
	}

	base := strings.TrimSuffix(file.Name, filepath.Ext(file.Name)) + ".mp3"
	out := filepath.Join(dir, base)
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", file.Path,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		"-y",
		out,
	}

	n.log.Debug().Str("file", file.Name).Str("output", out).Msg("converting")
	cmd := exec.CommandContext(ctx, bin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return domain.AudioFile{}, nil, fmt.Errorf("%w: %s: %s", domain.ErrConversionFailed, file.Name, strings.TrimSpace(string(output)))
		}
		return domain.AudioFile{}, nil, fmt.Errorf("%w: %s: %v", domain.ErrConversionFailed, file.Name, err)
	}

	info, err := os.Stat(out)
	if err != nil {
		cleanup()
		return domain.AudioFile{}, nil, fmt.Errorf("%w: %s: no output produced", domain.ErrConversionFailed, file.Name)
	}

	return domain.AudioFile{
		Path:    out,
		Name:    base,
		Size:    info.Size(),
		ModTime: file.ModTime,
	}, cleanup, nil
}

// Instructions returns platform-specific install hints
func Instructions() string {
	var hint string
	switch runtime.GOOS {
	case "darwin":
		hint = "Install ffmpeg with: brew install ffmpeg"
	case "windows":
		hint = "Install ffmpeg with: winget install ffmpeg (or place ffmpeg.exe in " + config.BinDir() + ")"
	default:
		hint = "Install ffmpeg with your package manager, e.g. sudo apt install ffmpeg"
	}
	return hint + "\nOr download a static build with: audio-transcriber doctor --install-ffmpeg"
}
