package population

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPSource_SampleSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("lat"); got != "40.7100" {
			t.Errorf("lat query = %q", got)
		}
		if got := r.URL.Query().Get("window"); got != "5" {
			t.Errorf("window query = %q", got)
		}
		w.Write([]byte(`{"densities":[1200, 8000, 300]}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	densities, err := src.Sample(context.Background(), 40.71, -74.0, 50, 5)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(densities) != 3 || densities[1] != 8000 {
		t.Errorf("unexpected densities: %v", densities)
	}
}

func TestHTTPSource_ClientErrorIsPermanent(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	if _, err := src.Sample(context.Background(), 0, 0, 50, 5); err == nil {
		t.Fatal("expected error for 404")
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("4xx must not be retried, got %d requests", got)
	}
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"densities":[60]}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	densities, err := src.Sample(context.Background(), 0, 0, 50, 1)
	if err != nil {
		t.Fatalf("Sample should recover after transient 502s: %v", err)
	}
	if len(densities) != 1 {
		t.Errorf("unexpected densities: %v", densities)
	}
	if got := atomic.LoadInt64(&hits); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestHTTPSource_ExhaustsRetries(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	src.MaxAttempts = 2
	if _, err := src.Sample(context.Background(), 0, 0, 50, 1); err == nil {
		t.Fatal("expected error once retries are exhausted")
	}
	if got := atomic.LoadInt64(&hits); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestHTTPSource_CancellationStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewHTTPSource(srv.URL, nil)
	start := time.Now()
	if _, err := src.Sample(ctx, 0, 0, 50, 1); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sample must not sit in the backoff loop")
	}
}

func TestHTTPSource_EmptyResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"densities":[]}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, nil)
	src.MaxAttempts = 1
	if _, err := src.Sample(context.Background(), 0, 0, 50, 1); err == nil {
		t.Fatal("expected error for empty sample set")
	}
}
