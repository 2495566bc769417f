package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/devbush/audio-transcriber/internal/application"
	"github.com/devbush/audio-transcriber/internal/config"
	"github.com/devbush/audio-transcriber/internal/domain"
	"github.com/devbush/audio-transcriber/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Config holds the listener and middleware settings
type Config struct {
	Host          string
	Port          int
	AuthToken     string
	MaxUploadMB   int
	Workers       int
	QueueWait     time.Duration
	ShutdownGrace time.Duration
	CORSOrigins   []string
}

// ConfigFrom derives server settings from the application config
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		AuthToken:     cfg.Server.AuthToken,
		MaxUploadMB:   cfg.Server.MaxUploadMB,
		Workers:       cfg.Server.Workers,
		QueueWait:     30 * time.Second,
		ShutdownGrace: cfg.ShutdownGraceDuration(),
		CORSOrigins:   cfg.Server.CORSOrigins,
	}
}

// Server is the HTTP front end over the transcription service
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	cfg        Config
	listener   net.Listener
	log        zerolog.Logger
}

// New builds the gin engine with middleware and routes
func New(cfg Config, svc *application.Service, log zerolog.Logger) *Server {
	log = logging.WithComponent(log, "http")
	if gin.Mode() != gin.TestMode {
		if log.GetLevel() <= zerolog.DebugLevel {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	engine := gin.New()
	engine.MaxMultipartMemory = 32 << 20

	h := &handlers{svc: svc, log: log}
	engine.Use(Recovery(log))
	engine.Use(RequestID())
	engine.Use(RequestLogger(log))
	engine.Use(CORS(cfg.CORSOrigins))
	engine.Use(BearerAuth(cfg.AuthToken, "/", "/health"))
	if cfg.MaxUploadMB > 0 {
		engine.Use(BodySizeLimit(domain.MBToBytes(cfg.MaxUploadMB)))
	}

	engine.GET("/", h.root)
	engine.GET("/health", h.health)
	engine.GET("/languages", h.languages)

	bulkhead := NewBulkhead(cfg.Workers, cfg.QueueWait)
	tr := engine.Group("/transcribe", bulkhead.Middleware())
	tr.POST("", h.transcribe)
	tr.POST("/batch", h.batch)
	tr.POST("/download", h.download)
	tr.POST("/url", h.url)

	engine.NoRoute(h.notFound)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		engine: engine,
		cfg:    cfg,
		log:    log,
	}
}

// Handler returns the routed engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the port and serves in the background
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server error")
		}
	}()

	s.log.Info().
		Str("addr", listener.Addr().String()).
		Bool("auth", s.cfg.AuthToken != "").
		Int("workers", s.cfg.Workers).
		Msg("HTTP server started")
	return nil
}

// Addr returns the bound address, or the configured one before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Stop waits up to the shutdown grace for in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")

	grace := s.cfg.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info().Msg("HTTP server stopped")
	return nil
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop(context.Background())
}
