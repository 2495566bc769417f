package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/ulikunitz/xz"
)

func tarXZ(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tw := tar.NewWriter(xw)
	for name, body := range files {
		hdr := &tar.Header{Name: name, Mode: 0755, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := xw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReleaseURL(t *testing.T) {
	tests := []struct {
		goos, goarch string
		kind         archiveKind
		wantErr      bool
	}{
		{"linux", "amd64", archiveTarXZ, false},
		{"linux", "arm64", archiveTarXZ, false},
		{"darwin", "arm64", archiveZip, false},
		{"windows", "amd64", archive7z, false},
		{"linux", "riscv64", 0, true},
		{"plan9", "386", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			url, kind, err := releaseURL(tt.goos, tt.goarch)
			if tt.wantErr {
				if !errors.Is(err, ErrNoRelease) {
					t.Errorf("releaseURL() error = %v, want ErrNoRelease", err)
				}
				return
			}
			if err != nil || url == "" {
				t.Fatalf("releaseURL() = %q, %v", url, err)
			}
			if kind != tt.kind {
				t.Errorf("kind = %v, want %v", kind, tt.kind)
			}
		})
	}
}

func TestInstaller_Install(t *testing.T) {
	archive := tarXZ(t, map[string]string{
		"ffmpeg-7.0-amd64-static/readme.txt": "docs",
		"ffmpeg-7.0-amd64-static/" + binaryName(): "#!/bin/sh\necho ffmpeg\n",
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	binDir := filepath.Join(t.TempDir(), "bin")
	inst := &Installer{binDir: binDir, url: srv.URL, kind: archiveTarXZ, client: srv.Client(), log: zerolog.Nop()}

	var last int64
	path, err := inst.Install(context.Background(), func(downloaded, total int64) { last = downloaded })
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if path != filepath.Join(binDir, binaryName()) {
		t.Errorf("path = %s", path)
	}
	if last != int64(len(archive)) {
		t.Errorf("progress reported %d bytes, want %d", last, len(archive))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "#!/bin/sh\necho ffmpeg\n" {
		t.Errorf("binary contents = %q", data)
	}

	entries, _ := os.ReadDir(binDir)
	if len(entries) != 1 {
		t.Errorf("bin dir has %d entries, want only the binary", len(entries))
	}
}

func TestInstaller_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	binDir := t.TempDir()
	inst := &Installer{binDir: binDir, url: srv.URL, kind: archiveTarXZ, client: srv.Client(), log: zerolog.Nop()}
	if _, err := inst.Install(context.Background(), nil); err == nil {
		t.Fatal("Install() should fail on HTTP 404")
	}

	entries, _ := os.ReadDir(binDir)
	if len(entries) != 0 {
		t.Errorf("bin dir should be empty after a failed download, has %d entries", len(entries))
	}
}

func TestExtractBinary(t *testing.T) {
	dir := t.TempDir()

	zipPath := filepath.Join(dir, "ffmpeg.zip")
	if err := os.WriteFile(zipPath, zipArchive(t, map[string]string{"ffmpeg": "zip-binary"}), 0644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "out")
	if err := extractBinary(zipPath, archiveZip, "ffmpeg", dest); err != nil {
		t.Fatalf("extractBinary(zip) error = %v", err)
	}
	if data, _ := os.ReadFile(dest); string(data) != "zip-binary" {
		t.Errorf("extracted = %q", data)
	}

	if err := extractBinary(zipPath, archiveZip, "ffprobe", filepath.Join(dir, "missing")); err == nil {
		t.Error("extractBinary() should fail when the entry is absent")
	}
	if _, err := os.Stat(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Error("no output should be left when the entry is absent")
	}

	if err := extractBinary(zipPath, archive7z, "ffmpeg", filepath.Join(dir, "bad")); err == nil {
		t.Error("extractBinary() should reject a zip passed as 7z")
	}
}

func TestEntryMatches(t *testing.T) {
	tests := []struct {
		entry string
		want  bool
	}{
		{"ffmpeg", true},
		{"ffmpeg-7.0/ffmpeg", true},
		{`ffmpeg-7.0-essentials_build\bin\ffmpeg`, true},
		{"ffmpeg-7.0/ffprobe", false},
		{"ffmpeg-7.0/", false},
	}
	for _, tt := range tests {
		if got := entryMatches(tt.entry, "ffmpeg"); got != tt.want {
			t.Errorf("entryMatches(%q) = %v, want %v", tt.entry, got, tt.want)
		}
	}
}
