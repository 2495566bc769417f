package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	codeBadRequest   = "bad_request"
	codeValidation   = "validation_error"
	codeTooLarge     = "file_too_large"
	codeUnauthorized = "unauthorized"
	codeUnavailable  = "service_unavailable"
	codeBusy         = "busy"
	codeInternal     = "internal_error"
)

// APIError is an error with a status code and a machine-readable code
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Cause }

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	Error     string         `json:"error"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func badRequest(format string, args ...any) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: codeBadRequest, Message: fmt.Sprintf(format, args...)}
}

func tooLarge(limitMB float64) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    codeTooLarge,
		Message: fmt.Sprintf("file too large, maximum is %gMB", limitMB),
		Details: map[string]any{"max_file_size_mb": limitMB},
	}
}

func unavailable() *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    codeUnavailable,
		Message: "transcription service not available",
	}
}

// bindError classifies a request binding failure. Anything that is not a
// validation or body-size failure is a malformed request.
func bindError(err error) *APIError {
	var verrs validator.ValidationErrors
	var maxErr *http.MaxBytesError
	if errors.As(err, &verrs) || errors.As(err, &maxErr) {
		return toAPIError(err)
	}
	return &APIError{Status: http.StatusBadRequest, Code: codeBadRequest, Message: "invalid request: " + err.Error(), Cause: err}
}

func isMalformed(err error) bool {
	var numErr *strconv.NumError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &numErr) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// toAPIError maps domain and binding errors onto HTTP statuses
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validationError(verrs)
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &APIError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    codeTooLarge,
			Message: fmt.Sprintf("request body exceeds %gMB", domain.BytesToMB(maxErr.Limit)),
			Cause:   err,
		}
	}

	switch {
	case errors.Is(err, domain.ErrBackendUnavailable):
		return &APIError{Status: http.StatusServiceUnavailable, Code: codeUnavailable, Message: err.Error(), Cause: err}
	case errors.Is(err, domain.ErrFileTooLarge):
		return &APIError{Status: http.StatusRequestEntityTooLarge, Code: codeTooLarge, Message: err.Error(), Cause: err}
	case domain.IsInputError(err), isMalformed(err):
		return &APIError{Status: http.StatusBadRequest, Code: codeBadRequest, Message: err.Error(), Cause: err}
	}
	return &APIError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "internal server error", Cause: err}
}

func validationError(verrs validator.ValidationErrors) *APIError {
	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		msg := describeTag(fe)
		fields = append(fields, FieldError{Field: name, Message: msg})
		messages = append(messages, name+" "+msg)
	}
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    codeValidation,
		Message: strings.Join(messages, "; "),
		Details: map[string]any{"fields": fields},
	}
}

var fieldNames = map[string]string{
	"OutputFormat":  "output_format",
	"Language":      "language",
	"MaxFileSizeMB": "max_file_size_mb",
	"AudioURL":      "audio_url",
}

func fieldName(fe validator.FieldError) string {
	if name, ok := fieldNames[fe.StructField()]; ok {
		return name
	}
	return strings.ToLower(fe.Field())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "lowercase":
		return "must be lowercase"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func abortWithError(c *gin.Context, apiErr *APIError) {
	c.AbortWithStatusJSON(apiErr.Status, ErrorResponse{
		Error:     apiErr.Code,
		Message:   apiErr.Message,
		Details:   apiErr.Details,
		Timestamp: time.Now(),
		RequestID: requestID(c),
	})
}
