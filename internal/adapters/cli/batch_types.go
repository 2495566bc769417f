package cli

import (
	"fmt"
	"time"

	"github.com/devbush/audio-transcriber/internal/adapters/cli/tui"
	"github.com/devbush/audio-transcriber/internal/application"
	"github.com/devbush/audio-transcriber/internal/domain"
)

// progressObserver renders batch runner events on a tui.BatchProgress
type progressObserver struct {
	progress *tui.BatchProgress
	folder   string
}

func newProgressObserver(progress *tui.BatchProgress, folder string) *progressObserver {
	return &progressObserver{progress: progress, folder: folder}
}

func (o *progressObserver) StateChanged(state application.BatchState) {
	switch state {
	case application.StateLocating:
		o.progress.Status(fmt.Sprintf("Locating audio files in %s", o.folder))
	case application.StateEmptyInput:
		o.progress.Status("No audio files found")
	case application.StateReporting:
		o.progress.Status("Writing report...")
	}
}

func (o *progressObserver) FileStarted(index, total int, file domain.AudioFile) {
	if index == 0 {
		o.progress.Begin(total)
	}
	o.progress.Start(index, file.Name, file.SizeMB())
}

func (o *progressObserver) FileFinished(rec domain.Record, _ int) {
	o.progress.AddResult(tui.FileResult{
		Name:     rec.FileName,
		Success:  rec.Success,
		ErrMsg:   rec.Error,
		SizeMB:   rec.SizeMB,
		Duration: time.Duration(rec.ProcessingTime * float64(time.Second)),
	})
}

var _ application.BatchObserver = (*progressObserver)(nil)
