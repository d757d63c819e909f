package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Clark-Hu/movie-watchlist/internal/repository"
)

func BenchmarkHandleSubmit(b *testing.B) {
	srv := buildTestServer(b, repository.NewMemory(), nil, true)
	payload := `{"title":"Benchmark Movie","genre":"Action","person":"Nobody"}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := srv.do(http.MethodPost, "/submit", strings.NewReader(payload), "application/json")
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
