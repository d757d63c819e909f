package domain

import "time"

// Watchlist is the singleton aggregate holding movie references in attachment order.
type Watchlist struct {
	ID        string
	Name      string
	Movies    []string
	CreatedAt time.Time
}

// PopulatedWatchlist is a Watchlist whose references have been resolved.
// A nil entry marks a reference whose movie no longer exists.
type PopulatedWatchlist struct {
	ID        string
	Name      string
	Movies    []*Movie
	CreatedAt time.Time
}
