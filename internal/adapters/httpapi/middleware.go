package httpapi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/devbush/audio-transcriber/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	headerRequestID = "X-Request-Id"
	ctxRequestID    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or generates one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// Recovery turns a panic into a 500 and logs the stack
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Str(logging.FieldRequestID, requestID(c)).
					Str("error", fmt.Sprintf("%v", rec)).
					Str("stack", string(debug.Stack())).
					Str("path", c.Request.URL.Path).
					Msg("panic recovered")
				abortWithError(c, &APIError{Status: http.StatusInternalServerError, Code: codeInternal, Message: "internal server error"})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs every request except health probes
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev.Str(logging.FieldRequestID, requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client", c.ClientIP()).
			Msg("request completed")
	}
}

// CORS answers preflight requests and sets headers for allowed origins
func CORS(origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(origin, origins) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+headerRequestID)
			h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+headerRequestID)
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// BearerAuth requires "Authorization: Bearer <token>" on every path not in open.
// An empty token disables the check.
func BearerAuth(token string, open ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		for _, p := range open {
			if c.Request.URL.Path == p {
				c.Next()
				return
			}
		}

		scheme, given, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			abortWithError(c, &APIError{Status: http.StatusUnauthorized, Code: codeUnauthorized, Message: "authorization header required"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			abortWithError(c, &APIError{Status: http.StatusUnauthorized, Code: codeUnauthorized, Message: "invalid token"})
			return
		}
		c.Next()
	}
}

// BodySizeLimit caps the request body at limit bytes
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// Bulkhead caps concurrent requests. A request that cannot get a slot within
// wait is rejected with 503.
type Bulkhead struct {
	sem  chan struct{}
	wait time.Duration
}

// NewBulkhead creates a bulkhead with max slots
func NewBulkhead(max int, wait time.Duration) *Bulkhead {
	if max <= 0 {
		max = 1
	}
	return &Bulkhead{sem: make(chan struct{}, max), wait: wait}
}

func (b *Bulkhead) acquire(ctx context.Context) bool {
	select {
	case b.sem <- struct{}{}:
		return true
	default:
	}
	if b.wait <= 0 {
		return false
	}

	timer := time.NewTimer(b.wait)
	defer timer.Stop()
	select {
	case b.sem <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

// Middleware guards the handlers that call the remote backend
func (b *Bulkhead) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !b.acquire(c.Request.Context()) {
			c.Header("Retry-After", "5")
			abortWithError(c, &APIError{Status: http.StatusServiceUnavailable, Code: codeBusy, Message: "server is busy, try again later"})
			return
		}
		defer b.release()
		c.Next()
	}
}
