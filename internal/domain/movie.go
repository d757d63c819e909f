package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxFieldLength bounds every free-text movie attribute.
const MaxFieldLength = 512

// Movie is a persisted watchlist entry.
type Movie struct {
	ID        string
	Title     string
	Genre     string
	Person    string
	CreatedAt time.Time
}

// MovieInput carries the client-supplied attributes of a new movie.
type MovieInput struct {
	Title  string
	Genre  string
	Person string
}

// Normalize trims surrounding whitespace from every field.
func (in MovieInput) Normalize() MovieInput {
	return MovieInput{
		Title:  strings.TrimSpace(in.Title),
		Genre:  strings.TrimSpace(in.Genre),
		Person: strings.TrimSpace(in.Person),
	}
}

// Validate checks the shape of the input. No field is required.
func (in MovieInput) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"genre", in.Genre},
		{"person", in.Person},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return &ValidationError{Field: f.name, Message: "must be valid UTF-8"}
		}
		if utf8.RuneCountInString(f.value) > MaxFieldLength {
			return &ValidationError{Field: f.name, Message: fmt.Sprintf("must be at most %d characters", MaxFieldLength)}
		}
	}
	return nil
}

// ValidationError reports malformed movie input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Message)
}
