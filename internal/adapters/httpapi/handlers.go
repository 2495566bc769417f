package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/devbush/audio-transcriber/internal/application"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type uploadForm struct {
	OutputFormat  string `form:"output_format" binding:"omitempty,oneof=json txt xlsx csv excel text"`
	Language      string `form:"language" binding:"omitempty,len=2,lowercase"`
	MaxFileSizeMB int    `form:"max_file_size_mb" binding:"omitempty,min=1,max=100"`
}

func (f uploadForm) options() application.UploadOptions {
	return application.UploadOptions{Language: f.Language, MaxFileSizeMB: f.MaxFileSizeMB}
}

type urlRequest struct {
	AudioURL      string `json:"audio_url" binding:"required,url"`
	Language      string `json:"language" binding:"omitempty,len=2,lowercase"`
	MaxFileSizeMB int    `json:"max_file_size_mb" binding:"omitempty,min=1,max=100"`
	OutputFormat  string `json:"output_format" binding:"omitempty,oneof=json txt xlsx csv excel text"`
}

type healthResponse struct {
	Status           string    `json:"status"`
	Version          string    `json:"version"`
	Timestamp        time.Time `json:"timestamp"`
	Backend          string    `json:"backend"`
	BackendAvailable bool      `json:"backend_available"`
	SupportedFormats []string  `json:"supported_formats"`
	MaxFileSizeMB    float64   `json:"max_file_size_mb"`
	UptimeSeconds    float64   `json:"uptime_seconds"`
}

type handlers struct {
	svc *application.Service
	log zerolog.Logger
}

func (h *handlers) fail(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError && apiErr.Cause != nil {
		h.log.Error().Err(apiErr.Cause).Str(logging.FieldRequestID, requestID(c)).Msg("request failed")
	}
	abortWithError(c, apiErr)
}

func (h *handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Audio Transcriber API",
		"version":   application.Version,
		"health":    "/health",
		"languages": "/languages",
	})
}

func (h *handlers) health(c *gin.Context) {
	st := h.svc.Status()
	status := "healthy"
	if !st.BackendAvailable {
		status = "unhealthy"
	}
	c.JSON(http.StatusOK, healthResponse{
		Status:           status,
		Version:          application.Version,
		Timestamp:        time.Now(),
		Backend:          st.Backend,
		BackendAvailable: st.BackendAvailable,
		SupportedFormats: st.SupportedFormats,
		MaxFileSizeMB:    st.MaxFileSizeMB,
		UptimeSeconds:    domain.RoundTo(st.Uptime.Seconds(), 1),
	})
}

func (h *handlers) languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"supported_languages": domain.Languages,
		"total_languages":     len(domain.Languages),
		"format":              "ISO-639-1",
		"note":                "use the 2-letter code (e.g. 'pt') in the language parameter",
	})
}

// transcribe handles one multipart "file"
func (h *handlers) transcribe(c *gin.Context) {
	if !h.svc.Available() {
		h.fail(c, unavailable())
		return
	}
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}
	format, err := parseFormat(form.OutputFormat, domain.FormatJSON)
	if err != nil {
		h.fail(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, formFileError(err, "file"))
		return
	}
	opts := form.options()
	if err := h.checkSize(fh, opts); err != nil {
		h.fail(c, err)
		return
	}
	up, err := readUpload(fh)
	if err != nil {
		h.fail(c, err)
		return
	}

	rec, err := h.svc.TranscribeUpload(c.Request.Context(), up, opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	if format == domain.FormatJSON {
		c.JSON(http.StatusOK, rec)
		return
	}
	h.sendArtifact(c, []domain.Record{rec}, format)
}

// batch handles multipart "files"
func (h *handlers) batch(c *gin.Context) {
	if !h.svc.Available() {
		h.fail(c, unavailable())
		return
	}
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}
	format, err := parseFormat(form.OutputFormat, domain.FormatJSON)
	if err != nil {
		h.fail(c, err)
		return
	}
	uploads, err := readUploads(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp, err := h.svc.TranscribeUploads(c.Request.Context(), uploads, form.options())
	if err != nil {
		h.fail(c, err)
		return
	}
	if format == domain.FormatJSON {
		c.JSON(http.StatusOK, resp)
		return
	}
	h.sendArtifact(c, resp.Results, format)
}

// download always answers with an attachment, xlsx unless asked otherwise
func (h *handlers) download(c *gin.Context) {
	if !h.svc.Available() {
		h.fail(c, unavailable())
		return
	}
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}
	format, err := parseFormat(form.OutputFormat, domain.FormatXLSX)
	if err != nil {
		h.fail(c, err)
		return
	}
	opts := form.options()

	mf, err := c.MultipartForm()
	if err != nil {
		h.fail(c, formFileError(err, "files"))
		return
	}
	headers := append(mf.File["files"], mf.File["file"]...)
	if len(headers) == 0 {
		h.fail(c, badRequest("at least one file is required"))
		return
	}

	var records []domain.Record
	if len(headers) == 1 {
		if err := h.checkSize(headers[0], opts); err != nil {
			h.fail(c, err)
			return
		}
		up, err := readUpload(headers[0])
		if err != nil {
			h.fail(c, err)
			return
		}
		rec, err := h.svc.TranscribeUpload(c.Request.Context(), up, opts)
		if err != nil {
			h.fail(c, err)
			return
		}
		records = []domain.Record{rec}
	} else {
		uploads, err := readHeaders(headers)
		if err != nil {
			h.fail(c, err)
			return
		}
		resp, err := h.svc.TranscribeUploads(c.Request.Context(), uploads, opts)
		if err != nil {
			h.fail(c, err)
			return
		}
		records = resp.Results
	}
	h.sendArtifact(c, records, format)
}

// url downloads and transcribes a remote file
func (h *handlers) url(c *gin.Context) {
	if !h.svc.Available() {
		h.fail(c, unavailable())
		return
	}
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	format, err := parseFormat(req.OutputFormat, domain.FormatJSON)
	if err != nil {
		h.fail(c, err)
		return
	}

	rec, err := h.svc.TranscribeURL(c.Request.Context(), req.AudioURL, application.UploadOptions{
		Language:      req.Language,
		MaxFileSizeMB: req.MaxFileSizeMB,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if format == domain.FormatJSON {
		c.JSON(http.StatusOK, rec)
		return
	}
	h.sendArtifact(c, []domain.Record{rec}, format)
}

func (h *handlers) notFound(c *gin.Context) {
	abortWithError(c, &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "no route for " + c.Request.URL.Path})
}

func (h *handlers) sendArtifact(c *gin.Context, records []domain.Record, format domain.OutputFormat) {
	art, err := h.svc.Render(records, format)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	c.Data(http.StatusOK, art.ContentType, art.Body)
}

func (h *handlers) checkSize(fh *multipart.FileHeader, opts application.UploadOptions) error {
	if limit := h.svc.MaxBytes(opts); fh.Size > limit {
		return tooLarge(domain.BytesToMB(limit))
	}
	return nil
}

func parseFormat(raw string, fallback domain.OutputFormat) (domain.OutputFormat, error) {
	if raw == "" {
		return fallback, nil
	}
	f, err := domain.ParseOutputFormat(raw)
	if err != nil {
		return "", badRequest("%v", err)
	}
	return f, nil
}

func formFileError(err error, field string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return badRequest("multipart field %q is required", field)
	}
	return badRequest("invalid multipart body: %v", err)
}

func readUploads(c *gin.Context) ([]application.Upload, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, formFileError(err, "files")
	}
	headers := mf.File["files"]
	if len(headers) == 0 {
		return nil, badRequest("at least one file is required")
	}
	return readHeaders(headers)
}

func readHeaders(headers []*multipart.FileHeader) ([]application.Upload, error) {
	uploads := make([]application.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (application.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return application.Upload{}, badRequest("failed to read %s: %v", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return application.Upload{}, badRequest("failed to read %s: %v", fh.Filename, err)
	}
	return application.Upload{Name: fh.Filename, Data: data}, nil
}
