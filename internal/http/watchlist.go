package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-watchlist/internal/domain"
	"github.com/Clark-Hu/movie-watchlist/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type movieSubmitRequest struct {
	Title  string `json:"title"`
	Genre  string `json:"genre"`
	Person string `json:"person"`
}

type movieResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Person    string    `json:"person"`
	CreatedAt time.Time `json:"createdAt"`
}

type watchlistResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Movies    []string  `json:"movies"`
	CreatedAt time.Time `json:"createdAt"`
}

type populatedWatchlistResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Movies    []*movieResponse `json:"movies"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSubmitRequest(w, r)
	if err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, wl, err := s.svc.Submit(r.Context(), domain.MovieInput{
		Title:  req.Title,
		Genre:  req.Genre,
		Person: req.Person,
	})
	if err != nil {
		s.respondServiceError(w, err, "submit movie")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", url.PathEscape(movie.ID)))
	s.respondJSON(w, http.StatusCreated, toWatchlistResponse(wl))
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.svc.ListMovies(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list movies")
		return
	}
	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing id parameter")
		return
	}
	movie, err := s.svc.GetMovie(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, err, "get movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleListWatchlists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.ListWatchlists(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list watchlists")
		return
	}
	items := make([]watchlistResponse, 0, len(lists))
	for _, wl := range lists {
		items = append(items, toWatchlistResponse(wl))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleListPopulated(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.ListPopulated(r.Context())
	if err != nil {
		s.respondServiceError(w, err, "list populated watchlists")
		return
	}
	items := make([]populatedWatchlistResponse, 0, len(lists))
	for _, wl := range lists {
		movies := make([]*movieResponse, len(wl.Movies))
		for i, movie := range wl.Movies {
			if movie != nil {
				resp := toMovieResponse(*movie)
				movies[i] = &resp
			}
		}
		items = append(items, populatedWatchlistResponse{
			ID:        wl.ID,
			Name:      wl.Name,
			Movies:    movies,
			CreatedAt: wl.CreatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, items)
}

// decodeSubmitRequest accepts a JSON body or an HTML form post.
func decodeSubmitRequest(w http.ResponseWriter, r *http.Request) (movieSubmitRequest, error) {
	var req movieSubmitRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Title = r.PostForm.Get("title")
		req.Genre = r.PostForm.Get("genre")
		req.Person = r.PostForm.Get("person")
		return req, nil
	}
	err := decodeJSONBody(w, r, &req)
	return req, err
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("request body must contain a single JSON object")

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body cannot be empty")
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "Request body too large")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// respondServiceError maps store and validation errors onto status codes.
// Underlying errors are logged, never written to the client.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, action string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: validationErr.Error(),
			Details: map[string]string{"field": validationErr.Field},
		})
	case errors.Is(err, repository.ErrNotInitialized):
		s.logger.Printf("%s: %v", action, err)
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Watchlist has not been initialized")
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, repository.ErrDuplicate):
		s.logger.Printf("%s: %v", action, err)
		s.respondError(w, http.StatusConflict, "CONFLICT", "Resource already exists")
	default:
		s.logger.Printf("%s error: %v", action, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("Failed to %s", action))
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:        movie.ID,
		Title:     movie.Title,
		Genre:     movie.Genre,
		Person:    movie.Person,
		CreatedAt: movie.CreatedAt,
	}
}

func toWatchlistResponse(wl domain.Watchlist) watchlistResponse {
	movies := wl.Movies
	if movies == nil {
		movies = []string{}
	}
	return watchlistResponse{
		ID:        wl.ID,
		Name:      wl.Name,
		Movies:    movies,
		CreatedAt: wl.CreatedAt,
	}
}
