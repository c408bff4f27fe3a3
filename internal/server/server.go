package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brewbook/internal/app"
	"brewbook/internal/config"
	"brewbook/internal/logging"
)

// Server serves the HTTP API for one App.
type Server struct {
	app     *app.App
	cfg     *config.Config
	logger  *slog.Logger
	metrics *httpMetrics
	handler http.Handler
	started time.Time

	lock     *flock.Flock
	listener net.Listener
	server   *http.Server
	running  atomic.Bool
}

// New builds the router for a. It does not bind a socket.
func New(a *app.App) (*Server, error) {
	if a == nil || a.Config == nil || a.Catalog == nil {
		return nil, errors.New("server requires an opened app")
	}
	s := &Server{
		app:     a,
		cfg:     a.Config,
		logger:  logging.NewComponentLogger(a.Logger, "api-server"),
		metrics: newHTTPMetrics(a.Registry),
		started: time.Now(),
		lock:    flock.New(a.Config.LockPath()),
	}

	routes := http.NewServeMux()
	routes.HandleFunc("GET /api/status", s.handleStatus)
	routes.HandleFunc("GET /api/logs", s.handleLogs)
	routes.HandleFunc("GET /api/recipes", s.handleListRecipes)
	routes.HandleFunc("GET /api/search", s.handleSearch)
	routes.HandleFunc("POST /api/recipes", s.handleCreateRecipe)
	routes.HandleFunc("POST /api/recipes/import", s.handleImportRecipe)
	routes.HandleFunc("GET /api/recipes/{slug}", s.handleGetRecipe)
	routes.HandleFunc("PUT /api/recipes/{slug}", s.handlePutRecipe)
	routes.HandleFunc("DELETE /api/recipes/{slug}", s.handleDeleteRecipe)
	routes.HandleFunc("GET /api/recipes/{slug}/export", s.handleExportRecipe)
	routes.HandleFunc("GET /api/recipes/{slug}/similar", s.handleSimilar)
	routes.HandleFunc("GET /api/recipes/{slug}/label", s.handleLabel)
	routes.HandleFunc("GET /api/recipes/{slug}/label.svg", s.handleLabelSVG)
	routes.HandleFunc("GET /api/calc/abv", s.handleCalcABV)
	routes.HandleFunc("GET /api/calc/ibu", s.handleCalcIBU)
	routes.HandleFunc("POST /api/calc/ibu", s.handleCalcIBU)
	routes.HandleFunc("GET /api/calc/gravity", s.handleCalcGravity)
	routes.HandleFunc("GET /api/colors/{srm}", s.handleColor)

	root := http.NewServeMux()
	root.Handle("/api/", authMiddleware(s.cfg.Server.APIToken, routes))
	if s.cfg.Server.Metrics {
		root.Handle("GET /metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))
	}
	s.handler = s.requestIDMiddleware(s.metricsMiddleware(root))
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start acquires the instance lock and begins serving on the configured
// bind address. The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another brewbook server is already using %s", s.cfg.Paths.DataDir)
	}

	listener, err := net.Listen("tcp", strings.TrimSpace(s.cfg.Server.Bind))
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.running.Store(true)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server error", "api_serve_failed", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String(logging.FieldEventType, "api_listening"),
		logging.String("address", listener.Addr().String()),
		logging.String("storage", s.app.Catalog.Driver()),
		logging.String("lock", s.cfg.LockPath()),
	)
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and releases the lock. It is safe to call
// more than once.
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api shutdown incomplete", logging.Error(err))
	}
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("failed to release server lock", logging.Error(err))
	}
	s.logger.Info("api server stopped", logging.String(logging.FieldEventType, "api_stopped"))
}

// Run opens the app, serves until SIGINT/SIGTERM or ctx cancellation, and
// cleans up.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	signalCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.Open(signalCtx, cfg, logger, app.Options{RuntimeMetrics: cfg.Server.Metrics})
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := New(a)
	if err != nil {
		return err
	}
	if err := srv.Start(signalCtx); err != nil {
		return err
	}
	<-signalCtx.Done()
	srv.Stop()
	return nil
}
