package repository

import (
	"context"
	"testing"
)

func TestMemoryRepository(t *testing.T) {
	runStoreContract(t, func(t *testing.T) *Repository {
		return NewMemory()
	})
}

func TestMemoryWatchlists_ReturnsCopies(t *testing.T) {
	repo := NewMemory()
	ctx := context.Background()

	if _, err := repo.Watchlists.Create(ctx, testWatchlist); err != nil {
		t.Fatalf("create watchlist: %v", err)
	}
	wl, err := repo.Watchlists.AppendMovie(ctx, testWatchlist, "a")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	wl.Movies[0] = "mutated"

	got, err := repo.Watchlists.Get(ctx, testWatchlist)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Movies[0] != "a" {
		t.Fatalf("stored reference = %s, want a", got.Movies[0])
	}
}
