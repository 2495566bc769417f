package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}

	var bar strings.Builder
	bar.WriteString("[")

	switch {
	case current >= total:
		bar.WriteString(strings.Repeat("=", width))
	case current <= 0:
		bar.WriteString(strings.Repeat(" ", width))
	default:
		ratio := float64(current) / float64(total)
		head := int(ratio*float64(width) + 0.5)
		head = max(1, min(head, width))

		// from the halfway mark the head sits after the filled cells
		equals := head - 1
		if ratio >= 0.5 {
			equals = head
		}
		equals = max(0, min(equals, width-1))
		spaces := max(0, width-equals-1)

		bar.WriteString(strings.Repeat("=", equals))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", spaces))
	}

	bar.WriteString("]")
	return bar.String()
}

// FileResult is the outcome of one file in a folder run
type FileResult struct {
	Name     string
	Success  bool
	ErrMsg   string
	SizeMB   float64
	Duration time.Duration
}

// BatchProgress prints one line per file and a closing summary
type BatchProgress struct {
	out       io.Writer
	total     int
	completed int
	failures  []FileResult
	quiet     bool
	mu        sync.Mutex
}

// NewBatchProgress creates a batch progress display writing to out
func NewBatchProgress(out io.Writer, quiet bool) *BatchProgress {
	return &BatchProgress{out: out, quiet: quiet}
}

// Status prints a phase line such as "Locating audio files in ./audios"
func (bp *BatchProgress) Status(msg string) {
	if bp.quiet {
		return
	}
	fmt.Fprintln(bp.out, dimStyle.Render(msg))
}

// Begin announces the number of files about to be processed
func (bp *BatchProgress) Begin(total int) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.total = max(total, 0)
	if bp.quiet {
		return
	}
	fmt.Fprintf(bp.out, "Found %d audio file(s)\n\n", bp.total)
}

// Start prints the file about to be sent
func (bp *BatchProgress) Start(index int, name string, sizeMB float64) {
	if bp.quiet {
		return
	}
	bp.mu.Lock()
	defer bp.mu.Unlock()
	fmt.Fprintf(bp.out, "[%d/%d] %s (%s)\n", index+1, bp.total, name, FormatMB(sizeMB))
}

// AddResult records a finished file and prints its outcome
func (bp *BatchProgress) AddResult(r FileResult) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.completed++
	if !r.Success {
		bp.failures = append(bp.failures, r)
	}
	if bp.quiet {
		return
	}

	bar := renderProgressBar(bp.completed, bp.total, 20)
	pct := 0
	if bp.total > 0 {
		pct = bp.completed * 100 / bp.total
	}
	if r.Success {
		fmt.Fprintf(bp.out, "  %s %s %s %d%%\n", successStyle.Render("✓"), FormatDuration(r.Duration), bar, pct)
	} else {
		fmt.Fprintf(bp.out, "  %s %s %s %d%%\n", errorStyle.Render("✗"), r.ErrMsg, bar, pct)
	}
}

// Summary is what Complete prints after the run
type Summary struct {
	Total       int
	Succeeded   int
	SuccessRate float64
	Elapsed     time.Duration
	Reports     []string
}

// Complete prints the final summary and the written reports. Outside quiet
// mode the failed files are listed as well.
func (bp *BatchProgress) Complete(s Summary) {
	bp.mu.Lock()
	failures := make([]FileResult, len(bp.failures))
	copy(failures, bp.failures)
	bp.mu.Unlock()

	line := fmt.Sprintf("Batch complete: %d/%d succeeded (%.1f%%) in %s",
		s.Succeeded, s.Total, s.SuccessRate, FormatDuration(s.Elapsed))
	if bp.quiet {
		fmt.Fprintln(bp.out, line)
		for _, p := range s.Reports {
			fmt.Fprintln(bp.out, p)
		}
		return
	}

	fmt.Fprintln(bp.out)
	fmt.Fprintln(bp.out, titleStyle.Render(line))

	if len(failures) > 0 {
		fmt.Fprintf(bp.out, "\nFailures (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(bp.out, "  %s %s: %s\n", errorStyle.Render("✗"), f.Name, f.ErrMsg)
		}
	}

	if len(s.Reports) > 0 {
		fmt.Fprintln(bp.out, "\nReports:")
		for _, p := range s.Reports {
			fmt.Fprintf(bp.out, "  %s\n", p)
		}
	}
}
