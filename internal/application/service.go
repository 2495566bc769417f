package application

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/ports"
	"github.com/rs/zerolog"
)

// Version is reported by the HTTP surface and the CLI
const Version = "1.0.0"

// Upload is one in-memory audio file received by the service
type Upload struct {
	Name string
	Data []byte
}

// UploadOptions configures a request-scoped transcription
type UploadOptions struct {
	Language      string
	MaxFileSizeMB int // zero uses the configured ceiling
}

// BatchResponse is the aggregate result of a multi-file request
type BatchResponse struct {
	Summary domain.Summary  `json:"summary"`
	Results []domain.Record `json:"results"`
	Skipped []string        `json:"skipped,omitempty"`
}

// Artifact is a rendered report ready to send as a download
type Artifact struct {
	Format      domain.OutputFormat
	ContentType string
	Filename    string
	Body        []byte
}

// ServiceStatus describes the service for health checks
type ServiceStatus struct {
	Backend          string
	BackendAvailable bool
	MaxFileSizeMB    float64
	SupportedFormats []string
	StartedAt        time.Time
	Uptime           time.Duration
}

// Service adapts in-memory buffers to the transcription client and report writer
type Service struct {
	client *TranscriptionClient
	writer ports.ReportWriter
	http   *http.Client
	delay  time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	start  time.Time
	log    zerolog.Logger
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithHTTPClient replaces the client used for URL downloads
func WithHTTPClient(c *http.Client) ServiceOption {
	return func(s *Service) { s.http = c }
}

// WithServiceClock replaces time.Now
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithServiceSleep replaces the pause between calls of a multi-file request
func WithServiceSleep(sleep func(ctx context.Context, d time.Duration) error) ServiceOption {
	return func(s *Service) { s.sleep = sleep }
}

// NewService creates the service facade
func NewService(client *TranscriptionClient, writer ports.ReportWriter, delay time.Duration, log zerolog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		writer: writer,
		http:   &http.Client{Timeout: 2 * time.Minute},
		delay:  delay,
		now:    time.Now,
		sleep:  sleepContext,
		log:    log.With().Str("component", "service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// Available reports whether the remote backend can take calls
func (s *Service) Available() bool {
	return s.client.Backend().Available()
}

// MaxBytes returns the ceiling for a request, honoring a per-request override
func (s *Service) MaxBytes(opts UploadOptions) int64 {
	if opts.MaxFileSizeMB > 0 {
		return domain.MBToBytes(opts.MaxFileSizeMB)
	}
	return s.client.MaxBytes()
}

// Status returns health information
func (s *Service) Status() ServiceStatus {
	now := s.now()
	return ServiceStatus{
		Backend:          s.client.Backend().Name(),
		BackendAvailable: s.Available(),
		MaxFileSizeMB:    domain.BytesToMB(s.client.MaxBytes()),
		SupportedFormats: domain.SupportedExtensions,
		StartedAt:        s.start,
		Uptime:           now.Sub(s.start),
	}
}

func validateUploadOptions(opts UploadOptions) error {
	if err := domain.ValidateLanguage(opts.Language); err != nil {
		return domain.NewInputError("transcribe", err)
	}
	if opts.MaxFileSizeMB < 0 {
		return domain.NewInputError("transcribe", fmt.Errorf("max_file_size_mb must not be negative"))
	}
	return nil
}

func validateUploadName(name string) error {
	if name == "" {
		return domain.NewInputError("transcribe", fmt.Errorf("%w: missing file name", domain.ErrUnsupportedFormat))
	}
	if !domain.IsSupportedAudio(name) {
		return domain.NewInputError("transcribe", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, name))
	}
	return nil
}

// TranscribeUpload transcribes one buffer. Only invalid input is returned as an
// error; size and backend failures come back as a failed record.
func (s *Service) TranscribeUpload(ctx context.Context, up Upload, opts UploadOptions) (domain.Record, error) {
	if err := validateUploadOptions(opts); err != nil {
		return domain.Record{}, err
	}
	if err := validateUploadName(up.Name); err != nil {
		return domain.Record{}, err
	}
	return s.transcribeOne(ctx, 1, up, opts), nil
}

// TranscribeUploads transcribes buffers sequentially with the configured pause
// between calls. Unsupported files are skipped; if none remain it is an InputError.
func (s *Service) TranscribeUploads(ctx context.Context, uploads []Upload, opts UploadOptions) (*BatchResponse, error) {
	if err := validateUploadOptions(opts); err != nil {
		return nil, err
	}

	resp := &BatchResponse{}
	var valid []Upload
	for _, up := range uploads {
		if err := validateUploadName(up.Name); err != nil {
			s.log.Warn().Str("file", up.Name).Msg("skipping unsupported upload")
			resp.Skipped = append(resp.Skipped, up.Name)
			continue
		}
		valid = append(valid, up)
	}
	if len(valid) == 0 {
		return nil, domain.NewInputError("transcribe", domain.ErrNoAudioFiles)
	}

	resp.Results = make([]domain.Record, 0, len(valid))
	for i, up := range valid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, s.transcribeOne(ctx, i+1, up, opts))
		if i < len(valid)-1 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return nil, err
			}
		}
	}
	resp.Summary = domain.Summarize(resp.Results, s.now())
	return resp, nil
}

func (s *Service) transcribeOne(ctx context.Context, id int, up Upload, opts UploadOptions) domain.Record {
	start := s.now()
	attempt := s.client.TranscribeBytes(ctx, up.Name, up.Data, AttemptOptions{
		Language: opts.Language,
		MaxBytes: s.MaxBytes(opts),
	})
	end := s.now()
	file := domain.AudioFile{Name: up.Name, Size: int64(len(up.Data))}
	return domain.NewRecord(id, file, attempt, end.Sub(start), end)
}

// TranscribeURL downloads a remote audio file, capped at the size ceiling, and transcribes it
func (s *Service) TranscribeURL(ctx context.Context, rawURL string, opts UploadOptions) (domain.Record, error) {
	if err := validateUploadOptions(opts); err != nil {
		return domain.Record{}, err
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.Record{}, domain.NewInputError("transcribe", fmt.Errorf("invalid audio URL %q", rawURL))
	}
	name := path.Base(u.Path)
	if err := validateUploadName(name); err != nil {
		return domain.Record{}, err
	}

	start := s.now()
	data, failure := s.download(ctx, u.String(), s.MaxBytes(opts))
	if failure != "" {
		end := s.now()
		file := domain.AudioFile{Name: name, Path: u.String(), Size: int64(len(data))}
		return domain.NewRecord(1, file, domain.Failed(failure), end.Sub(start), end), nil
	}

	rec := s.transcribeOne(ctx, 1, Upload{Name: name, Data: data}, opts)
	rec.Path = u.String()
	return rec, nil
}

// download returns the body or a failure message
func (s *Service) download(ctx context.Context, rawURL string, limit int64) ([]byte, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Sprintf("download failed: %v", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("download failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Sprintf("download failed: HTTP %d", resp.StatusCode)
	}
	if resp.ContentLength > limit {
		return nil, SizeLimitMessage(resp.ContentLength, limit)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Sprintf("download failed: %v", err)
	}
	if int64(len(data)) > limit {
		return nil, SizeLimitMessage(int64(len(data)), limit)
	}
	return data, ""
}

// Render serializes records into a downloadable artifact
func (s *Service) Render(records []domain.Record, format domain.OutputFormat) (*Artifact, error) {
	body, err := s.writer.Render(records, format)
	if err != nil {
		return nil, err
	}
	name := "transcription"
	if len(records) > 1 {
		name = "transcriptions"
	}
	return &Artifact{
		Format:      format,
		ContentType: format.ContentType(),
		Filename:    name + format.Extension(),
		Body:        body,
	}, nil
}
