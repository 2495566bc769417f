package domain

import (
	"math"
	"path/filepath"
	"strings"
	"time"
)

// SupportedExtensions lists the audio extensions the transcription backend accepts
var SupportedExtensions = []string{".mp3", ".mp4", ".mpeg", ".mpga", ".m4a", ".wav", ".webm", ".ogg", ".flac"}

const bytesPerMB = 1024 * 1024

// AudioFile is one candidate input found on disk or received in a request
type AudioFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// SizeMB returns the size in megabytes rounded to 2 decimals
func (a AudioFile) SizeMB() float64 {
	return BytesToMB(a.Size)
}

// Ext returns the lowercased extension including the dot
func (a AudioFile) Ext() string {
	return strings.ToLower(filepath.Ext(a.Name))
}

// IsSupportedAudio reports whether name has a supported extension (case-insensitive)
func IsSupportedAudio(name string) bool {
	return HasExtension(name, SupportedExtensions)
}

// HasExtension reports whether name ends in one of exts (case-insensitive)
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// BytesToMB converts a byte count to megabytes rounded to 2 decimals
func BytesToMB(n int64) float64 {
	return RoundTo(float64(n)/bytesPerMB, 2)
}

// MBToBytes converts whole megabytes to bytes
func MBToBytes(mb int) int64 {
	return int64(mb) * bytesPerMB
}

// RoundTo rounds v half away from zero to the given number of decimals
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
