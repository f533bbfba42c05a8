package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDEchoesCaller(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-Id", "abc-123")
	rec := httptest.NewRecorder()
	RequestID()(next).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("expected echoed id abc-123, got %q", got)
	}
}

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-Id")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	RequestID()(next).ServeHTTP(rec, req)

	if seen == "" || rec.Header().Get("X-Request-Id") != seen {
		t.Fatalf("expected matching minted id, handler saw %q, response has %q", seen, rec.Header().Get("X-Request-Id"))
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted id %q is not a uuid: %v", seen, err)
	}
}
