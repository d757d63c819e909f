package tmdb

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewHTTPClient(srv.URL+"/3", "secret-key", "https://img.example/w185/", 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestHTTPClientSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/search/movie" {
			t.Errorf("path = %s, want /3/search/movie", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_key"); got != "secret-key" {
			t.Errorf("api_key = %q, want secret-key", got)
		}
		if got := r.URL.Query().Get("query"); got != "star wars" {
			t.Errorf("query = %q, want star wars", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"page":1,"results":[
			{"id":11,"title":"Star Wars","overview":"A long time ago","release_date":"1977-05-25","poster_path":"/poster.jpg"},
			{"id":12,"title":"No Poster","poster_path":null}
		]}`)
	})

	results, err := client.Search(context.Background(), "star wars")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	first := results[0]
	if first.ID != 11 || first.Title != "Star Wars" || first.ReleaseDate != "1977-05-25" {
		t.Fatalf("first = %+v", first)
	}
	if first.PosterURL != "https://img.example/w185/poster.jpg" {
		t.Fatalf("poster url = %q", first.PosterURL)
	}
	if results[1].PosterPath != "" || results[1].PosterURL != "" {
		t.Fatalf("missing poster should stay empty: %+v", results[1])
	}
}

func TestHTTPClientSearch_Statuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{"not found", http.StatusNotFound, "", func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"server error", http.StatusInternalServerError, "", func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "500")
		}},
		{"bad json", http.StatusOK, "{", func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "decode")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := client.Search(context.Background(), "x")
			if !tt.wantErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHTTPClientSearch_ErrorOmitsKey(t *testing.T) {
	client, err := NewHTTPClient("http://127.0.0.1:1", "secret-key", "", 500*time.Millisecond, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	_, err = client.Search(context.Background(), "x")
	if err == nil {
		t.Fatalf("expected connection error")
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewHTTPClient("api.themoviedb.org", "k", "", time.Second, nil); err == nil {
		t.Fatalf("expected error for relative url")
	}
}
