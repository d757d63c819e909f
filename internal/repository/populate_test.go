package repository

import (
	"testing"
	"time"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
)

func TestPopulate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	byID := map[string]domain.Movie{
		"a": {ID: "a", Title: "Alien"},
		"b": {ID: "b", Title: "Brazil"},
	}

	tests := []struct {
		name  string
		refs  []string
		want  []string
		wantN int
	}{
		{"empty", []string{}, []string{}, 0},
		{"ordered", []string{"b", "a"}, []string{"b", "a"}, 2},
		{"dangling", []string{"a", "gone", "b"}, []string{"a", "", "b"}, 3},
		{"repeated", []string{"a", "a"}, []string{"a", "a"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists := []domain.Watchlist{{ID: "w", Name: testWatchlist, Movies: tt.refs, CreatedAt: created}}
			got := populate(lists, byID)
			if len(got) != 1 {
				t.Fatalf("len(populate) = %d, want 1", len(got))
			}
			if got[0].ID != "w" || got[0].Name != testWatchlist || !got[0].CreatedAt.Equal(created) {
				t.Fatalf("header not copied: %+v", got[0])
			}
			if len(got[0].Movies) != tt.wantN {
				t.Fatalf("len(movies) = %d, want %d", len(got[0].Movies), tt.wantN)
			}
			for i, id := range tt.want {
				movie := got[0].Movies[i]
				if id == "" {
					if movie != nil {
						t.Fatalf("movies[%d] = %+v, want nil", i, movie)
					}
					continue
				}
				if movie == nil || movie.ID != id {
					t.Fatalf("movies[%d] = %+v, want %s", i, movie, id)
				}
			}
		})
	}
}

func TestPopulate_EntriesAreIndependent(t *testing.T) {
	byID := map[string]domain.Movie{"a": {ID: "a", Title: "Alien"}}
	got := populate([]domain.Watchlist{{Movies: []string{"a", "a"}}}, byID)
	got[0].Movies[0].Title = "changed"
	if got[0].Movies[1].Title != "Alien" {
		t.Fatalf("resolved entries share storage")
	}
	if byID["a"].Title != "Alien" {
		t.Fatalf("populate mutated its input")
	}
}
