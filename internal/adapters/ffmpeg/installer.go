package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

type archiveKind int

const (
	archiveTarXZ archiveKind = iota
	archiveZip
	archive7z
)

func (k archiveKind) suffix() string {
	switch k {
	case archiveZip:
		return ".zip"
	case archive7z:
		return ".7z"
	}
	return ".tar.xz"
}

// ErrNoRelease is returned on platforms without a static ffmpeg build
var ErrNoRelease = errors.New("no static ffmpeg build for this platform")

// releaseURL returns the static build for a platform
func releaseURL(goos, goarch string) (string, archiveKind, error) {
	switch goos {
	case "linux":
		switch goarch {
		case "amd64":
			return "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz", archiveTarXZ, nil
		case "arm64":
			return "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-arm64-static.tar.xz", archiveTarXZ, nil
		}
	case "darwin":
		return "https://evermeet.cx/ffmpeg/getrelease/zip", archiveZip, nil
	case "windows":
		return "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.7z", archive7z, nil
	}
	return "", 0, fmt.Errorf("%w: %s/%s", ErrNoRelease, goos, goarch)
}

// Installer downloads a static ffmpeg build into the bundled bin directory
type Installer struct {
	binDir string
	url    string
	kind   archiveKind
	client *http.Client
	log    zerolog.Logger
}

// NewInstaller creates an installer for the running platform
func NewInstaller(binDir string, log zerolog.Logger) (*Installer, error) {
	url, kind, err := releaseURL(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, err
	}
	return &Installer{
		binDir: binDir,
		url:    url,
		kind:   kind,
		client: http.DefaultClient,
		log:    log.With().Str("component", "ffmpeg-installer").Logger(),
	}, nil
}

// URL returns the release the installer will fetch
func (i *Installer) URL() string {
	return i.url
}

// Install downloads and unpacks ffmpeg, returning the installed binary path
func (i *Installer) Install(ctx context.Context, progress func(downloaded, total int64)) (string, error) {
	if err := os.MkdirAll(i.binDir, 0755); err != nil {
		return "", err
	}

	archive, err := os.CreateTemp(i.binDir, "ffmpeg-*"+i.kind.suffix())
	if err != nil {
		return "", err
	}
	archivePath := archive.Name()
	defer os.Remove(archivePath)

	i.log.Info().Str("url", i.url).Msg("downloading ffmpeg")
	err = i.download(ctx, archive, progress)
	if closeErr := archive.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}

	dest := filepath.Join(i.binDir, binaryName())
	if err := extractBinary(archivePath, i.kind, binaryName(), dest); err != nil {
		return "", err
	}
	i.log.Info().Str("path", dest).Msg("ffmpeg installed")
	return dest, nil
}

func (i *Installer) download(ctx context.Context, out io.Writer, progress func(downloaded, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download ffmpeg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download ffmpeg: HTTP %d", resp.StatusCode)
	}

	total := resp.ContentLength
	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// extractBinary copies the entry named name out of the archive to dest
func extractBinary(archivePath string, kind archiveKind, name, dest string) error {
	var err error
	switch kind {
	case archiveTarXZ:
		err = extractTarXZ(archivePath, name, dest)
	case archiveZip:
		err = extractZip(archivePath, name, dest)
	case archive7z:
		err = extract7z(archivePath, name, dest)
	default:
		err = fmt.Errorf("unknown archive kind %d", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", name, err)
	}
	return nil
}

func entryMatches(entry, name string) bool {
	return path.Base(strings.ReplaceAll(entry, "\\", "/")) == name
}

func extractTarXZ(archivePath, name, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return err
	}
	tr := tar.NewReader(xr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("%s not found in archive", name)
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag == tar.TypeReg && entryMatches(hdr.Name, name) {
			return writeExecutable(dest, tr)
		}
	}
}

func extractZip(archivePath, name, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !entryMatches(f.Name, name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return writeExecutable(dest, rc)
	}
	return fmt.Errorf("%s not found in archive", name)
}

func extract7z(archivePath, name, dest string) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !entryMatches(f.Name, name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return writeExecutable(dest, rc)
	}
	return fmt.Errorf("%s not found in archive", name)
}

// writeExecutable writes src to dest, removing partial output on failure
func writeExecutable(dest string, src io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(dest)
		}
	}()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	success = true
	return nil
}
