package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
	"github.com/Clark-Hu/movie-watchlist/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a watchlist with the same name already exists.
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrNotInitialized indicates the singleton watchlist has not been created.
	ErrNotInitialized = fmt.Errorf("%w: watchlist not initialized", ErrNotFound)
)

// MovieStore persists movie records.
type MovieStore interface {
	Create(ctx context.Context, in domain.MovieInput) (domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	GetByID(ctx context.Context, id string) (domain.Movie, error)
	// FindByIDs returns the movies that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Movie, error)
}

// WatchlistStore persists watchlists and their movie references.
type WatchlistStore interface {
	// Create fails with ErrDuplicate if a watchlist named name exists.
	Create(ctx context.Context, name string) (domain.Watchlist, error)
	// Get fails with ErrNotInitialized if no watchlist named name exists.
	Get(ctx context.Context, name string) (domain.Watchlist, error)
	// AppendMovie atomically pushes movieID onto the named watchlist.
	AppendMovie(ctx context.Context, name, movieID string) (domain.Watchlist, error)
	List(ctx context.Context) ([]domain.Watchlist, error)
}

// Repository aggregates the movie and watchlist stores of one backend.
type Repository struct {
	Movies     MovieStore
	Watchlists WatchlistStore
}

// New constructs a postgres-backed Repository from the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:     &MoviesRepository{pool: pool},
		Watchlists: &WatchlistsRepository{pool: pool},
	}
}

// NewMongo constructs a document-backed Repository from the provided store.
func NewMongo(m *store.Mongo) *Repository {
	return NewWithDatabase(m.Database())
}

// NewWithDatabase constructs mongo repositories directly from a database handle.
func NewWithDatabase(db *mongo.Database) *Repository {
	return &Repository{
		Movies:     &MongoMovies{coll: db.Collection(store.MoviesCollection)},
		Watchlists: &MongoWatchlists{coll: db.Collection(store.WatchlistsCollection)},
	}
}

// NewMemory constructs a process-local Repository.
func NewMemory() *Repository {
	return &Repository{
		Movies:     NewMemoryMovies(),
		Watchlists: NewMemoryWatchlists(),
	}
}

// ListPopulated returns every watchlist with its references resolved in place.
// References to missing movies resolve to nil at their original position.
func (r *Repository) ListPopulated(ctx context.Context) ([]domain.PopulatedWatchlist, error) {
	lists, err := r.Watchlists.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, wl := range lists {
		for _, id := range wl.Movies {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	byID := map[string]domain.Movie{}
	if len(ids) > 0 {
		byID, err = r.Movies.FindByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve watchlist movies: %w", err)
		}
	}
	return populate(lists, byID), nil
}

func populate(lists []domain.Watchlist, byID map[string]domain.Movie) []domain.PopulatedWatchlist {
	out := make([]domain.PopulatedWatchlist, 0, len(lists))
	for _, wl := range lists {
		movies := make([]*domain.Movie, len(wl.Movies))
		for i, id := range wl.Movies {
			if movie, ok := byID[id]; ok {
				m := movie
				movies[i] = &m
			}
		}
		out = append(out, domain.PopulatedWatchlist{
			ID:        wl.ID,
			Name:      wl.Name,
			Movies:    movies,
			CreatedAt: wl.CreatedAt,
		})
	}
	return out
}
