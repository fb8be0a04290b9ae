package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoRequestDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	build := func() (*http.Request, error) { return http.NewRequest(http.MethodGet, srv.URL, nil) }

	_, err := doRequest(context.Background(), srv.Client(), newCircuitBreaker("test"), build)
	if !errors.Is(err, errUnexpected) {
		t.Fatalf("expected errUnexpected, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", calls)
	}
}

func TestDoRequestCircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := newCircuitBreaker("test")
	build := func() (*http.Request, error) { return http.NewRequest(http.MethodGet, srv.URL, nil) }

	for i := 0; i < 5; i++ {
		_, _ = doRequest(context.Background(), srv.Client(), cb, build)
	}

	_, err := doRequest(context.Background(), srv.Client(), cb, build)
	if !errors.Is(err, errCircuitOpen) {
		t.Fatalf("expected errCircuitOpen after consecutive failures, got %v", err)
	}
}

func TestDoRequestWithoutClient(t *testing.T) {
	build := func() (*http.Request, error) { return http.NewRequest(http.MethodGet, "http://example.invalid", nil) }
	_, err := doRequest(context.Background(), nil, newCircuitBreaker("test"), build)
	if !errors.Is(err, errNoHTTPClient) {
		t.Fatalf("expected errNoHTTPClient, got %v", err)
	}
}
