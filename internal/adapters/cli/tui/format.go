package tui

import (
	"fmt"
	"time"
)

// FormatSize formats a byte count with a binary unit suffix
// Examples: 512 -> "512 B", 1536 -> "1.5 KB", 26214400 -> "25.0 MB"
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatMB formats a size already expressed in megabytes
func FormatMB(mb float64) string {
	return fmt.Sprintf("%.2f MB", mb)
}

// FormatDuration formats elapsed time as "850ms", "1.2s" or "2m03s"
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		d = d.Round(time.Second)
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

// Mask hides all but the edges of a secret
func Mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
