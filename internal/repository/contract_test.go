package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
)

const (
	testWatchlist = "Movie WatchList"
	// missingID is a well-formed identifier for every backend that never
	// names a stored movie.
	missingID = "0000000000000000000000aa"
)

// runStoreContract exercises the behaviour every backend must share.
// fresh must return a Repository over empty collections.
func runStoreContract(t *testing.T, fresh func(t *testing.T) *Repository) {
	t.Run("empty store lists are empty", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		movies, err := repo.Movies.List(ctx)
		if err != nil {
			t.Fatalf("list movies: %v", err)
		}
		if movies == nil || len(movies) != 0 {
			t.Fatalf("movies = %#v, want empty slice", movies)
		}
		lists, err := repo.Watchlists.List(ctx)
		if err != nil {
			t.Fatalf("list watchlists: %v", err)
		}
		if lists == nil || len(lists) != 0 {
			t.Fatalf("watchlists = %#v, want empty slice", lists)
		}
		populated, err := repo.ListPopulated(ctx)
		if err != nil {
			t.Fatalf("list populated: %v", err)
		}
		if len(populated) != 0 {
			t.Fatalf("populated = %#v, want empty", populated)
		}
	})

	t.Run("create movie assigns identity", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		in := domain.MovieInput{Title: "Inception", Genre: "Sci-Fi", Person: "Nolan"}
		movie, err := repo.Movies.Create(ctx, in)
		if err != nil {
			t.Fatalf("create movie: %v", err)
		}
		if movie.ID == "" {
			t.Fatalf("movie id not assigned")
		}
		if movie.Title != in.Title || movie.Genre != in.Genre || movie.Person != in.Person {
			t.Fatalf("movie = %+v, want fields of %+v", movie, in)
		}
		if movie.CreatedAt.IsZero() {
			t.Fatalf("createdAt not set")
		}

		got, err := repo.Movies.GetByID(ctx, movie.ID)
		if err != nil {
			t.Fatalf("get movie: %v", err)
		}
		if got.ID != movie.ID || got.Title != movie.Title {
			t.Fatalf("GetByID = %+v, want %+v", got, movie)
		}

		if _, err := repo.Movies.GetByID(ctx, missingID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetByID(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("movies list in insertion order", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		var want []string
		for i := 0; i < 5; i++ {
			movie, err := repo.Movies.Create(ctx, domain.MovieInput{Title: fmt.Sprintf("Movie %d", i)})
			if err != nil {
				t.Fatalf("create movie %d: %v", i, err)
			}
			want = append(want, movie.ID)
		}
		movies, err := repo.Movies.List(ctx)
		if err != nil {
			t.Fatalf("list movies: %v", err)
		}
		if len(movies) != len(want) {
			t.Fatalf("len(movies) = %d, want %d", len(movies), len(want))
		}
		for i, movie := range movies {
			if movie.ID != want[i] {
				t.Fatalf("movies[%d] = %s, want %s", i, movie.ID, want[i])
			}
		}
	})

	t.Run("watchlist create is unique by name", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		wl, err := repo.Watchlists.Create(ctx, testWatchlist)
		if err != nil {
			t.Fatalf("create watchlist: %v", err)
		}
		if wl.Name != testWatchlist || len(wl.Movies) != 0 {
			t.Fatalf("watchlist = %+v", wl)
		}
		if _, err := repo.Watchlists.Create(ctx, testWatchlist); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("second create error = %v, want ErrDuplicate", err)
		}

		lists, err := repo.Watchlists.List(ctx)
		if err != nil {
			t.Fatalf("list watchlists: %v", err)
		}
		if len(lists) != 1 {
			t.Fatalf("len(watchlists) = %d, want 1", len(lists))
		}

		got, err := repo.Watchlists.Get(ctx, testWatchlist)
		if err != nil {
			t.Fatalf("get watchlist: %v", err)
		}
		if got.ID != wl.ID {
			t.Fatalf("Get id = %s, want %s", got.ID, wl.ID)
		}
	})

	t.Run("missing watchlist is not initialized", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		if _, err := repo.Watchlists.Get(ctx, testWatchlist); !errors.Is(err, ErrNotInitialized) {
			t.Fatalf("Get error = %v, want ErrNotInitialized", err)
		}
		movie, err := repo.Movies.Create(ctx, domain.MovieInput{Title: "Orphan"})
		if err != nil {
			t.Fatalf("create movie: %v", err)
		}
		_, err = repo.Watchlists.AppendMovie(ctx, testWatchlist, movie.ID)
		if !errors.Is(err, ErrNotInitialized) || !errors.Is(err, ErrNotFound) {
			t.Fatalf("AppendMovie error = %v, want ErrNotInitialized wrapping ErrNotFound", err)
		}
	})

	t.Run("append preserves order and populate resolves", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		if _, err := repo.Watchlists.Create(ctx, testWatchlist); err != nil {
			t.Fatalf("create watchlist: %v", err)
		}
		a, _ := repo.Movies.Create(ctx, domain.MovieInput{Title: "A"})
		b, _ := repo.Movies.Create(ctx, domain.MovieInput{Title: "B"})

		if _, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, a.ID); err != nil {
			t.Fatalf("append a: %v", err)
		}
		wl, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, b.ID)
		if err != nil {
			t.Fatalf("append b: %v", err)
		}
		if len(wl.Movies) != 2 || wl.Movies[0] != a.ID || wl.Movies[1] != b.ID {
			t.Fatalf("movies = %v, want [%s %s]", wl.Movies, a.ID, b.ID)
		}

		populated, err := repo.ListPopulated(ctx)
		if err != nil {
			t.Fatalf("list populated: %v", err)
		}
		if len(populated) != 1 || len(populated[0].Movies) != 2 {
			t.Fatalf("populated = %+v", populated)
		}
		for i, want := range []domain.Movie{a, b} {
			got := populated[0].Movies[i]
			if got == nil || got.ID != want.ID || got.Title != want.Title {
				t.Fatalf("populated[%d] = %+v, want %+v", i, got, want)
			}
		}
	})

	t.Run("populate null-fills dangling references", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		if _, err := repo.Watchlists.Create(ctx, testWatchlist); err != nil {
			t.Fatalf("create watchlist: %v", err)
		}
		kept, _ := repo.Movies.Create(ctx, domain.MovieInput{Title: "Kept"})
		if _, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, missingID); err != nil {
			t.Fatalf("append missing: %v", err)
		}
		if _, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, kept.ID); err != nil {
			t.Fatalf("append kept: %v", err)
		}

		populated, err := repo.ListPopulated(ctx)
		if err != nil {
			t.Fatalf("list populated: %v", err)
		}
		movies := populated[0].Movies
		if len(movies) != 2 {
			t.Fatalf("len(movies) = %d, want 2", len(movies))
		}
		if movies[0] != nil {
			t.Fatalf("dangling reference resolved to %+v, want nil", movies[0])
		}
		if movies[1] == nil || movies[1].ID != kept.ID {
			t.Fatalf("movies[1] = %+v, want %s", movies[1], kept.ID)
		}
	})

	t.Run("concurrent appends lose nothing", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		if _, err := repo.Watchlists.Create(ctx, testWatchlist); err != nil {
			t.Fatalf("create watchlist: %v", err)
		}

		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				movie, err := repo.Movies.Create(ctx, domain.MovieInput{Title: fmt.Sprintf("Concurrent %d", i)})
				if err != nil {
					t.Errorf("create movie %d: %v", i, err)
					return
				}
				if _, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, movie.ID); err != nil {
					t.Errorf("append movie %d: %v", i, err)
				}
			}(i)
		}
		wg.Wait()

		wl, err := repo.Watchlists.Get(ctx, testWatchlist)
		if err != nil {
			t.Fatalf("get watchlist: %v", err)
		}
		if len(wl.Movies) != workers {
			t.Fatalf("len(movies) = %d, want %d", len(wl.Movies), workers)
		}
		seen := make(map[string]struct{}, workers)
		for _, id := range wl.Movies {
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate reference %s", id)
			}
			seen[id] = struct{}{}
		}
		movies, err := repo.Movies.List(ctx)
		if err != nil {
			t.Fatalf("list movies: %v", err)
		}
		if len(movies) != workers {
			t.Fatalf("len(list movies) = %d, want %d", len(movies), workers)
		}
		for _, movie := range movies {
			if _, ok := seen[movie.ID]; !ok {
				t.Fatalf("movie %s missing from watchlist", movie.ID)
			}
		}
	})
}
