package tmdb

import (
	"strings"
	"testing"
)

func FuzzConvertResults(f *testing.F) {
	f.Add(int64(11), "Star Wars", "/poster.jpg", "https://image.tmdb.org/t/p/w185")
	f.Add(int64(0), "", "", "")

	f.Fuzz(func(t *testing.T, id int64, title, poster, imageBase string) {
		payload := searchResponse{Results: []movieResult{{ID: id, Title: title, PosterPath: &poster}, {ID: id}}}
		results := convertResults(payload, imageBase)
		if len(results) != 2 {
			t.Fatalf("len(results) = %d, want 2", len(results))
		}
		if results[0].Title != title || results[0].ID != id {
			t.Fatalf("result fields not copied: %+v", results[0])
		}
		if results[1].PosterURL != "" {
			t.Fatalf("nil poster produced url %q", results[1].PosterURL)
		}
		if results[0].PosterURL != "" && !strings.HasPrefix(results[0].PosterURL, imageBase) {
			t.Fatalf("poster url %q not under %q", results[0].PosterURL, imageBase)
		}
	})
}
