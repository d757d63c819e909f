// Package tmdb proxies movie search to a TMDB-compatible upstream so the API
// key never leaves the server.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when upstream cannot find the requested resource.
var ErrNotFound = errors.New("tmdb: not found")

// SearchResult is one movie returned by a search.
type SearchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	PosterPath  string `json:"posterPath,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
}

// Client defines the contract for querying the upstream search API.
type Client interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL   *url.URL
	apiKey    string
	imageBase string
	client    *http.Client
	logger    *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed search client.
func NewHTTPClient(baseURL, apiKey, imageBase string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse tmdb url: %q is not absolute", baseURL)
	}
	return &HTTPClient{
		baseURL:   parsed,
		apiKey:    apiKey,
		imageBase: strings.TrimRight(imageBase, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Search queries upstream for movies matching query.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + "/search/movie"
	q := endpoint.Query()
	q.Set("api_key", c.apiKey)
	q.Set("query", query)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: request failed: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload searchResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode tmdb response: %w", err)
		}
		return convertResults(payload, c.imageBase), nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Printf("tmdb: unexpected status %d for query %q", resp.StatusCode, query)
		return nil, fmt.Errorf("tmdb: upstream returned %d", resp.StatusCode)
	}
}

type searchResponse struct {
	Page    int           `json:"page"`
	Results []movieResult `json:"results"`
}

type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  *string `json:"poster_path"`
}

func convertResults(payload searchResponse, imageBase string) []SearchResult {
	out := make([]SearchResult, 0, len(payload.Results))
	for _, m := range payload.Results {
		res := SearchResult{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
		}
		if m.PosterPath != nil && *m.PosterPath != "" {
			res.PosterPath = *m.PosterPath
			if imageBase != "" {
				res.PosterURL = imageBase + "/" + strings.TrimLeft(*m.PosterPath, "/")
			}
		}
		out = append(out, res)
	}
	return out
}

// redactKey strips the api key from url errors, which embed the request URL.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
