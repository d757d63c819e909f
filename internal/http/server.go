package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/movie-watchlist/internal/config"
	"github.com/Clark-Hu/movie-watchlist/internal/tmdb"
	"github.com/Clark-Hu/movie-watchlist/internal/watchlist"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server routes the watchlist operations over chi.
type Server struct {
	cfg     config.Config
	health  HealthChecker
	svc     *watchlist.Service
	search  tmdb.Client
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New builds the router and the underlying http.Server.
// A nil health checker always reports healthy; a nil search client disables /search.
func New(cfg config.Config, health HealthChecker, svc *watchlist.Service, search tmdb.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	s := &Server{
		cfg:    cfg,
		health: health,
		svc:    svc,
		search: search,
		logger: logger,
		router: r,
	}
	s.registerRoutes()
	s.httpSrv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  seconds(cfg.ReadTimeoutSecs),
		WriteTimeout: seconds(cfg.WriteTimeoutSecs),
		IdleTimeout:  seconds(cfg.IdleTimeoutSecs),
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Post("/submit", s.handleSubmit)
	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Get("/{id}", s.handleGetMovie)
	})
	s.router.Get("/watchlist", s.handleListWatchlists)
	s.router.Get("/populated", s.handleListPopulated)
	s.router.Get("/search", s.handleSearch)
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("http: serving watchlist %q on %s", s.svc.Name(), s.httpSrv.Addr)
		err := s.httpSrv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.HealthCheck(ctx); err != nil {
			s.logger.Printf("health check failed: %v", err)
			s.respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Store is unreachable")
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
