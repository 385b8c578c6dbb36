// Package api serves the voice and receipt parsers over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/txparse/internal/logger"
	"github.com/cleared-dev/txparse/internal/receipt"
	"github.com/cleared-dev/txparse/internal/taxonomy"
	"github.com/cleared-dev/txparse/internal/voice"
)

// Config holds API server configuration.
type Config struct {
	Addr string
	// MinConfidence flags records below it for review.
	MinConfidence float64
	Version       string
}

// DefaultConfig returns the defaults used when no config file is present.
func DefaultConfig() Config {
	return Config{Addr: ":8080", MinConfidence: 0.6}
}

// Server is the HTTP API server. Parsers are shared by all requests.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	log        zerolog.Logger
	tax        *taxonomy.Taxonomy
	voice      *voice.Parser
	receipt    *receipt.Parser
}

// NewServer creates a server around ready-made parsers.
func NewServer(cfg Config, tax *taxonomy.Taxonomy, vp *voice.Parser, rp *receipt.Parser, log zerolog.Logger) *Server {
	s := &Server{
		config:  cfg,
		router:  gin.New(),
		log:     log,
		tax:     tax,
		voice:   vp,
		receipt: rp,
	}
	s.router.Use(gin.CustomRecovery(s.recoverPanic), requestLogger(log))
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) recoverPanic(c *gin.Context, err any) {
	s.log.Error().Interface("panic", err).Str("path", c.Request.URL.Path).Msg("handler panicked")
	c.AbortWithStatusJSON(http.StatusInternalServerError, InternalError())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NotFoundError("route"))
	})

	v1 := s.router.Group("/api/v1")
	v1.POST("/parse/voice", s.parseVoice)
	v1.POST("/parse/receipt", s.parseReceipt)
	v1.GET("/taxonomy", s.getTaxonomy)
}

// Start listens on the configured address until Shutdown is called. After
// Shutdown it returns nil at once, even if it was never listening.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.config.Addr).Msg("starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server. It is safe to call before or
// concurrently with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() http.Handler {
	return s.router
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
