package application

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devbush/audio-transcriber/internal/adapters/report"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func newTestService(stt *mockSTT, opts ...ServiceOption) (*Service, *[]time.Duration) {
	var sleeps []time.Duration
	clock := func() time.Time { return fixedNow }
	log := zerolog.Nop()
	opts = append([]ServiceOption{
		WithServiceClock(clock),
		WithServiceSleep(func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return ctx.Err()
		}),
	}, opts...)
	client := NewTranscriptionClient(stt, ClientOptions{MaxFileSizeMB: 25}, log)
	return NewService(client, report.NewWriter(afero.NewMemMapFs(), clock), time.Second, log, opts...), &sleeps
}

func TestService_TranscribeUpload(t *testing.T) {
	stt := newMockSTT()
	stt.responses["memo.m4a"] = "meeting notes"
	svc, _ := newTestService(stt)

	rec, err := svc.TranscribeUpload(context.Background(), Upload{Name: "memo.m4a", Data: []byte("abc")}, UploadOptions{Language: "pt"})
	if err != nil {
		t.Fatalf("TranscribeUpload() error = %v", err)
	}
	if !rec.Success || rec.Text != "meeting notes" || rec.ID != 1 {
		t.Errorf("record = %+v", rec)
	}
	if stt.languages[0] != "pt" {
		t.Errorf("language = %q, want pt", stt.languages[0])
	}
}

func TestService_TranscribeUpload_OverLimit(t *testing.T) {
	stt := newMockSTT()
	svc, _ := newTestService(stt)

	rec, err := svc.TranscribeUpload(context.Background(), Upload{Name: "big.mp3", Data: make([]byte, 30*1024*1024)}, UploadOptions{})
	if err != nil {
		t.Fatalf("TranscribeUpload() error = %v", err)
	}
	if rec.Success || !strings.Contains(rec.Error, "25MB") {
		t.Errorf("record = %+v, want size limit failure", rec)
	}
	if stt.callCount() != 0 {
		t.Errorf("remote calls = %d, want 0", stt.callCount())
	}
}

func TestService_TranscribeUpload_InvalidInput(t *testing.T) {
	svc, _ := newTestService(newMockSTT())

	tests := []struct {
		name string
		up   Upload
		opts UploadOptions
		want error
	}{
		{"unsupported extension", Upload{Name: "notes.txt"}, UploadOptions{}, domain.ErrUnsupportedFormat},
		{"missing name", Upload{}, UploadOptions{}, domain.ErrUnsupportedFormat},
		{"bad language", Upload{Name: "a.mp3"}, UploadOptions{Language: "xx1"}, domain.ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.TranscribeUpload(context.Background(), tt.up, tt.opts)
			if !domain.IsInputError(err) || !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want InputError(%v)", err, tt.want)
			}
		})
	}
}

func TestService_TranscribeUploads(t *testing.T) {
	stt := newMockSTT()
	stt.responses["a.mp3"] = "one"
	stt.failures["b.wav"] = errors.New("HTTP 500")
	stt.responses["c.ogg"] = "three"
	svc, sleeps := newTestService(stt)

	resp, err := svc.TranscribeUploads(context.Background(), []Upload{
		{Name: "a.mp3", Data: []byte("a")},
		{Name: "readme.md", Data: []byte("r")},
		{Name: "b.wav", Data: []byte("b")},
		{Name: "c.ogg", Data: []byte("c")},
	}, UploadOptions{})
	if err != nil {
		t.Fatalf("TranscribeUploads() error = %v", err)
	}

	if len(resp.Results) != 3 || len(resp.Skipped) != 1 || resp.Skipped[0] != "readme.md" {
		t.Fatalf("results = %d, skipped = %v", len(resp.Results), resp.Skipped)
	}
	for i, rec := range resp.Results {
		if rec.ID != i+1 {
			t.Errorf("record %d id = %d", i, rec.ID)
		}
	}
	if resp.Summary.Total != 3 || resp.Summary.Succeeded != 2 || resp.Summary.SuccessRate != 66.7 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if len(*sleeps) != 2 {
		t.Errorf("sleeps = %d, want 2", len(*sleeps))
	}
}

func TestService_TranscribeUploads_NoneValid(t *testing.T) {
	svc, _ := newTestService(newMockSTT())

	_, err := svc.TranscribeUploads(context.Background(), []Upload{{Name: "a.txt"}, {Name: "b.doc"}}, UploadOptions{})
	if !domain.IsInputError(err) || !errors.Is(err, domain.ErrNoAudioFiles) {
		t.Errorf("error = %v, want InputError(ErrNoAudioFiles)", err)
	}
}

func TestService_TranscribeURL(t *testing.T) {
	audio := strings.Repeat("x", 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/talk.mp3":
			_, _ = w.Write([]byte(audio))
		case "/files/huge.mp3":
			_, _ = w.Write([]byte(strings.Repeat("y", 4096)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	stt := newMockSTT()
	stt.responses["talk.mp3"] = "downloaded talk"
	svc, _ := newTestService(stt, WithHTTPClient(srv.Client()))

	t.Run("success", func(t *testing.T) {
		rec, err := svc.TranscribeURL(context.Background(), srv.URL+"/files/talk.mp3", UploadOptions{})
		if err != nil {
			t.Fatalf("TranscribeURL() error = %v", err)
		}
		if !rec.Success || rec.Text != "downloaded talk" || rec.FileName != "talk.mp3" {
			t.Errorf("record = %+v", rec)
		}
		if rec.Path != srv.URL+"/files/talk.mp3" {
			t.Errorf("path = %q", rec.Path)
		}
		if stt.bodies["talk.mp3"] != audio {
			t.Error("uploaded body does not match the download")
		}
	})

	t.Run("not found", func(t *testing.T) {
		rec, err := svc.TranscribeURL(context.Background(), srv.URL+"/files/gone.mp3", UploadOptions{})
		if err != nil {
			t.Fatalf("TranscribeURL() error = %v", err)
		}
		if rec.Success || !strings.Contains(rec.Error, "HTTP 404") {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("exceeds request ceiling", func(t *testing.T) {
		svc, _ := newTestService(stt, WithHTTPClient(srv.Client()))
		svc.client.maxBytes = 1024

		rec, err := svc.TranscribeURL(context.Background(), srv.URL+"/files/huge.mp3", UploadOptions{})
		if err != nil {
			t.Fatalf("TranscribeURL() error = %v", err)
		}
		if rec.Success || !strings.Contains(rec.Error, "file too large") {
			t.Errorf("record = %+v", rec)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		for _, raw := range []string{"ftp://host/a.mp3", "not a url", srv.URL + "/files/page.html"} {
			if _, err := svc.TranscribeURL(context.Background(), raw, UploadOptions{}); !domain.IsInputError(err) {
				t.Errorf("TranscribeURL(%q) error = %v, want InputError", raw, err)
			}
		}
	})
}

func TestService_Render(t *testing.T) {
	svc, _ := newTestService(newMockSTT())
	records := []domain.Record{
		{ID: 1, FileName: "a.mp3", Text: "one", Success: true},
		{ID: 2, FileName: "b.mp3", Text: "two", Success: true},
	}

	art, err := svc.Render(records, domain.FormatCSV)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if art.Filename != "transcriptions.csv" || art.ContentType != domain.FormatCSV.ContentType() {
		t.Errorf("artifact = %s %s", art.Filename, art.ContentType)
	}
	if !strings.Contains(string(art.Body), "a.mp3") {
		t.Error("csv body is missing the record")
	}

	single, err := svc.Render(records[:1], domain.FormatTXT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if single.Filename != "transcription.txt" || string(single.Body) != "one" {
		t.Errorf("single artifact = %s %q", single.Filename, single.Body)
	}

	if _, err := svc.Render(nil, domain.FormatJSON); !domain.IsReportError(err) {
		t.Errorf("Render(nil) error = %v, want ReportError", err)
	}
}

func TestService_Status(t *testing.T) {
	stt := newMockSTT()
	stt.available = false
	svc, _ := newTestService(stt)

	st := svc.Status()
	if st.Backend != "mock" || st.BackendAvailable || st.MaxFileSizeMB != 25 {
		t.Errorf("status = %+v", st)
	}
	if !st.StartedAt.Equal(fixedNow) || st.Uptime != 0 {
		t.Errorf("started = %v uptime = %v", st.StartedAt, st.Uptime)
	}
}
