// Package server provides the HTTP API for filebot.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/internal/indexer"
	"github.com/hyperjump/filebot/internal/search"
	"github.com/hyperjump/filebot/internal/storage"
	"github.com/hyperjump/filebot/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the filebot API.
type Server struct {
	engine   *search.Engine
	indexer  *indexer.Indexer
	storage  storage.Storage
	config   *config.ServerConfig
	paths    *config.StorageConfig
	pageSize int
	webhook  webhookRoute
	logger   *zap.Logger
	router   chi.Router
	server   *http.Server
}

type webhookRoute struct {
	path    string
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithWebhook mounts the Telegram webhook handler at path.
func WithWebhook(path string, h http.Handler) Option {
	return func(s *Server) { s.webhook = webhookRoute{path: path, handler: h} }
}

// WithStoragePaths lets /api/v1/status report paths and the on-disk footprint.
func WithStoragePaths(paths *config.StorageConfig) Option {
	return func(s *Server) { s.paths = paths }
}

// WithPageSize sets the default search page size.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	idx *indexer.Indexer,
	storage storage.Storage,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:  engine,
		indexer: idx,
		storage: storage,
		config:  cfg,
		logger:  utils.OrNop(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.webhook.handler != nil {
		r.Post(s.webhook.path, s.webhook.handler.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.Compress(5))
		r.Use(s.requestLogger)

		r.Post("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Get("/files", s.handleListFiles)
		r.Post("/files", s.handleIndexFile)
		r.Get("/files/{id}", s.handleGetFile)
		r.Delete("/files/{id}", s.handleDeleteFile)
	})
	return r
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops. It returns nil after Stop.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
