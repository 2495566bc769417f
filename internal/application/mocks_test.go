package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
)

// mockSTT answers by file name and counts calls
type mockSTT struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []string
	bodies    map[string]string
	languages []string
	available bool
	block     bool
}

func newMockSTT() *mockSTT {
	return &mockSTT{
		responses: make(map[string]string),
		failures:  make(map[string]error),
		bodies:    make(map[string]string),
		available: true,
	}
}

func (m *mockSTT) Name() string    { return "mock" }
func (m *mockSTT) Available() bool { return m.available }

func (m *mockSTT) Transcribe(ctx context.Context, req ports.SpeechRequest) (string, error) {
	body, _ := io.ReadAll(req.Audio)

	m.mu.Lock()
	m.calls = append(m.calls, req.FileName)
	m.bodies[req.FileName] = string(body)
	m.languages = append(m.languages, req.Language)
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if !m.available {
		return "", domain.ErrBackendUnavailable
	}
	if err, ok := m.failures[req.FileName]; ok {
		return "", err
	}
	if text, ok := m.responses[req.FileName]; ok {
		return text, nil
	}
	return "", errors.New("unexpected file " + req.FileName)
}

func (m *mockSTT) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// recordingObserver captures batch events
type recordingObserver struct {
	states   []BatchState
	started  []string
	finished []domain.Record
}

func (o *recordingObserver) StateChanged(s BatchState) { o.states = append(o.states, s) }
func (o *recordingObserver) FileStarted(_, _ int, f domain.AudioFile) {
	o.started = append(o.started, f.Name)
}
func (o *recordingObserver) FileFinished(rec domain.Record, _ int) {
	o.finished = append(o.finished, rec)
}

// failingWriter fails on the n-th write
type failingWriter struct {
	ports.ReportWriter
	failOn  int
	writes  int
	removed []string
}

func (w *failingWriter) Write(records []domain.Record, format domain.OutputFormat, path string) (string, error) {
	w.writes++
	if w.writes == w.failOn {
		return "", &domain.ReportError{Path: path, Err: errors.New("disk full")}
	}
	return w.ReportWriter.Write(records, format, path)
}

func (w *failingWriter) Remove(path string) error {
	w.removed = append(w.removed, path)
	return w.ReportWriter.Remove(path)
}
