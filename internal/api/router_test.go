package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Liveness and the metrics scrape must answer even when session storage is
// down, and must never mint session cookies.
func TestRouter_OperationalRoutesSkipSessionStorage(t *testing.T) {
	// Dead address: any session read on these routes would surface loudly.
	rdb := redisclient.NewClient(&redisclient.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })

	e, _, err := NewRouter(Options{
		Redis:      rdb,
		BackendURL: "http://127.0.0.1:1",
		Logger:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewRouter returned error: %v", err)
	}

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200 with session storage down, got %d: %s", path, rec.Code, rec.Body.String())
		}
		if cookies := rec.Result().Cookies(); len(cookies) != 0 {
			t.Errorf("GET %s: must not mint session cookies, got %v", path, cookies)
		}
	}
}
