package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
)

// WatchlistsRepository stores watchlists in postgres. Movie references live in
// a text[] column so appends are a single atomic UPDATE.
type WatchlistsRepository struct {
	pool *pgxpool.Pool
}

const watchlistColumns = `id, name, movie_ids, created_at`

// Create inserts the named watchlist unless one already exists.
func (r *WatchlistsRepository) Create(ctx context.Context, name string) (domain.Watchlist, error) {
	query := fmt.Sprintf(`
        INSERT INTO watchlists (id, name)
        VALUES ($1,$2)
        ON CONFLICT (name) DO NOTHING
        RETURNING %s
    `, watchlistColumns)

	wl, err := scanWatchlist(r.pool.QueryRow(ctx, query, uuid.NewString(), name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Watchlist{}, fmt.Errorf("%w: watchlist %q", ErrDuplicate, name)
		}
		return domain.Watchlist{}, fmt.Errorf("insert watchlist: %w", err)
	}
	return wl, nil
}

// Get returns the named watchlist.
func (r *WatchlistsRepository) Get(ctx context.Context, name string) (domain.Watchlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM watchlists WHERE name = $1`, watchlistColumns)
	wl, err := scanWatchlist(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Watchlist{}, ErrNotInitialized
		}
		return domain.Watchlist{}, err
	}
	return wl, nil
}

// AppendMovie pushes movieID onto the named watchlist and returns the updated row.
func (r *WatchlistsRepository) AppendMovie(ctx context.Context, name, movieID string) (domain.Watchlist, error) {
	query := fmt.Sprintf(`
        UPDATE watchlists
        SET movie_ids = array_append(movie_ids, $2)
        WHERE name = $1
        RETURNING %s
    `, watchlistColumns)

	wl, err := scanWatchlist(r.pool.QueryRow(ctx, query, name, movieID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Watchlist{}, ErrNotInitialized
		}
		return domain.Watchlist{}, fmt.Errorf("append watchlist movie: %w", err)
	}
	return wl, nil
}

// List returns every watchlist with raw movie references.
func (r *WatchlistsRepository) List(ctx context.Context) ([]domain.Watchlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM watchlists ORDER BY created_at, id`, watchlistColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Watchlist, 0)
	for rows.Next() {
		wl, err := scanWatchlist(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, wl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanWatchlist(row pgx.Row) (domain.Watchlist, error) {
	var wl domain.Watchlist
	if err := row.Scan(&wl.ID, &wl.Name, &wl.Movies, &wl.CreatedAt); err != nil {
		return domain.Watchlist{}, err
	}
	if wl.Movies == nil {
		wl.Movies = []string{}
	}
	wl.CreatedAt = wl.CreatedAt.UTC()
	return wl, nil
}
