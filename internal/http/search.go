package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Clark-Hu/movie-watchlist/internal/tmdb"
)

const maxSearchQuery = 200

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		s.respondError(w, http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", "Movie search is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "q is required")
		return
	}
	if len(query) > maxSearchQuery {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "q is too long")
		return
	}

	ctx := r.Context()
	if s.cfg.TMDBTimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.TMDBTimeoutSecs)*time.Second)
		defer cancel()
	}

	results, err := s.search.Search(ctx, query)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			s.respondJSON(w, http.StatusOK, []tmdb.SearchResult{})
			return
		}
		s.logger.Printf("search %q failed: %v", query, err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Movie search failed")
		return
	}
	if results == nil {
		results = []tmdb.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, results)
}
