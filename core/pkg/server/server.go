// Package server exposes a host.Service over HTTP: editor descriptors, JSON
// render endpoints and HTML preview pages.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/host"
)

// Config untuk preview server
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Max request body size (0 = no limit)
	MaxBodySize int64

	// Compress enables brotli/gzip response compression
	Compress bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:            "127.0.0.1:8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxBodySize:     1 << 20, // 1MB
		Compress:        true,
	}
}

// Middleware type untuk HTTP
type Middleware func(http.Handler) http.Handler

// Server is the preview HTTP server
type Server struct {
	svc         *host.Service
	config      *Config
	logger      contracts.Logger
	middlewares []Middleware
	server      *http.Server
}

// Option configures the Server
type Option func(*Server)

// WithLogger sets the request and error logger
func WithLogger(l contracts.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l.Named("server")
		}
	}
}

// New creates a preview server for svc
func New(svc *host.Service, config *Config, opts ...Option) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		svc:         svc,
		config:      config,
		logger:      contracts.NopLogger(),
		middlewares: make([]Middleware, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use adds middleware applied after the built-in ones
func (s *Server) Use(middleware ...Middleware) {
	s.middlewares = append(s.middlewares, middleware...)
}

// Handler returns the routed handler wrapped in all middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	chain := []Middleware{Recovery(s.logger), RequestLogger(s.logger)}
	if s.config.Compress {
		chain = append(chain, Compress(DefaultCompressConfig()))
	}
	chain = append(chain, s.middlewares...)

	var h http.Handler = mux
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", s.config.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("preview server stopping")
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address
func (s *Server) Address() string {
	return s.config.Addr
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.config.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return s.config.ShutdownTimeout
}
