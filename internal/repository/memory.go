package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
)

// MemoryMovies keeps movies in process memory.
type MemoryMovies struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.Movie
}

// NewMemoryMovies returns an empty in-memory movie store.
func NewMemoryMovies() *MemoryMovies {
	return &MemoryMovies{byID: make(map[string]domain.Movie)}
}

func (m *MemoryMovies) Create(_ context.Context, in domain.MovieInput) (domain.Movie, error) {
	movie := domain.Movie{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Genre:     in.Genre,
		Person:    in.Person,
		CreatedAt: time.Now().UTC(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[movie.ID] = movie
	m.order = append(m.order, movie.ID)
	return movie, nil
}

func (m *MemoryMovies) List(_ context.Context) ([]domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.Movie, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.byID[id])
	}
	return items, nil
}

func (m *MemoryMovies) GetByID(_ context.Context, id string) (domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	movie, ok := m.byID[id]
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	return movie, nil
}

func (m *MemoryMovies) FindByIDs(_ context.Context, ids []string) (map[string]domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.Movie, len(ids))
	for _, id := range ids {
		if movie, ok := m.byID[id]; ok {
			out[id] = movie
		}
	}
	return out, nil
}

// MemoryWatchlists keeps watchlists in process memory.
type MemoryWatchlists struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*domain.Watchlist
}

// NewMemoryWatchlists returns an empty in-memory watchlist store.
func NewMemoryWatchlists() *MemoryWatchlists {
	return &MemoryWatchlists{byName: make(map[string]*domain.Watchlist)}
}

func (m *MemoryWatchlists) Create(_ context.Context, name string) (domain.Watchlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; ok {
		return domain.Watchlist{}, fmt.Errorf("%w: watchlist %q", ErrDuplicate, name)
	}
	wl := &domain.Watchlist{
		ID:        uuid.NewString(),
		Name:      name,
		Movies:    []string{},
		CreatedAt: time.Now().UTC(),
	}
	m.byName[name] = wl
	m.order = append(m.order, name)
	return cloneWatchlist(wl), nil
}

func (m *MemoryWatchlists) Get(_ context.Context, name string) (domain.Watchlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wl, ok := m.byName[name]
	if !ok {
		return domain.Watchlist{}, ErrNotInitialized
	}
	return cloneWatchlist(wl), nil
}

func (m *MemoryWatchlists) AppendMovie(_ context.Context, name, movieID string) (domain.Watchlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wl, ok := m.byName[name]
	if !ok {
		return domain.Watchlist{}, ErrNotInitialized
	}
	wl.Movies = append(wl.Movies, movieID)
	return cloneWatchlist(wl), nil
}

func (m *MemoryWatchlists) List(_ context.Context) ([]domain.Watchlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.Watchlist, 0, len(m.order))
	for _, name := range m.order {
		items = append(items, cloneWatchlist(m.byName[name]))
	}
	return items, nil
}

func cloneWatchlist(wl *domain.Watchlist) domain.Watchlist {
	out := *wl
	out.Movies = append([]string{}, wl.Movies...)
	return out
}
