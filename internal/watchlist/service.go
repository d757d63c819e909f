// Package watchlist composes the movie and watchlist stores into the
// operations served over HTTP.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
	"github.com/Clark-Hu/movie-watchlist/internal/repository"
)

// Service owns the singleton watchlist identified by name.
type Service struct {
	repo   *repository.Repository
	name   string
	logger *log.Logger
}

// New constructs a Service over repo for the watchlist called name.
func New(repo *repository.Repository, name string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, name: name, logger: logger}
}

// Name returns the singleton watchlist name.
func (s *Service) Name() string {
	return s.name
}

// Bootstrap creates the singleton watchlist if it is absent. An existing
// watchlist is logged and returned rather than reported as an error.
func (s *Service) Bootstrap(ctx context.Context) (domain.Watchlist, error) {
	wl, err := s.repo.Watchlists.Create(ctx, s.name)
	if err == nil {
		s.logger.Printf("watchlist: created %q (%s)", wl.Name, wl.ID)
		return wl, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return domain.Watchlist{}, fmt.Errorf("bootstrap watchlist: %w", err)
	}

	s.logger.Printf("watchlist: %q already exists", s.name)
	wl, err = s.repo.Watchlists.Get(ctx, s.name)
	if err != nil {
		return domain.Watchlist{}, fmt.Errorf("bootstrap watchlist: %w", err)
	}
	return wl, nil
}

// Watchlist returns the singleton, or repository.ErrNotInitialized.
func (s *Service) Watchlist(ctx context.Context) (domain.Watchlist, error) {
	return s.repo.Watchlists.Get(ctx, s.name)
}

// Submit stores a new movie and attaches it to the singleton watchlist.
// The movie stays stored when the append fails.
func (s *Service) Submit(ctx context.Context, in domain.MovieInput) (domain.Movie, domain.Watchlist, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.Movie{}, domain.Watchlist{}, err
	}

	movie, err := s.repo.Movies.Create(ctx, in)
	if err != nil {
		return domain.Movie{}, domain.Watchlist{}, err
	}

	wl, err := s.repo.Watchlists.AppendMovie(ctx, s.name, movie.ID)
	if err != nil {
		return movie, domain.Watchlist{}, err
	}
	return movie, wl, nil
}

// ListMovies returns every stored movie.
func (s *Service) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.repo.Movies.List(ctx)
}

// GetMovie returns one movie by id.
func (s *Service) GetMovie(ctx context.Context, id string) (domain.Movie, error) {
	return s.repo.Movies.GetByID(ctx, id)
}

// ListWatchlists returns every watchlist with raw references.
func (s *Service) ListWatchlists(ctx context.Context) ([]domain.Watchlist, error) {
	return s.repo.Watchlists.List(ctx)
}

// ListPopulated returns every watchlist with references resolved.
func (s *Service) ListPopulated(ctx context.Context) ([]domain.PopulatedWatchlist, error) {
	return s.repo.ListPopulated(ctx)
}
