package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClientRate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rates/EUR/USD" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Quote{
			Source: "EUR",
			Target: "USD",
			Rate:   decimal.NewFromFloat(1.0842),
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	rate, err := c.Rate(context.Background(), "EUR", "USD")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(1.0842)) {
		t.Fatalf("rate %s, want 1.0842", rate)
	}
}

func TestClientRate_RetriesOnTooManyRequests(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		_ = json.NewEncoder(w).Encode(Quote{Source: "EUR", Target: "USD", Rate: decimal.NewFromFloat(1.1)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	rate, err := c.Rate(context.Background(), "EUR", "USD")
	if err != nil {
		t.Fatalf("rate after retry: %v", err)
	}
	if !rate.Equal(decimal.NewFromFloat(1.1)) {
		t.Fatalf("rate %s, want 1.1", rate)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected retried request, got %d calls", calls.Load())
	}
}

func TestClientRate_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	if _, err := c.Rate(context.Background(), "EUR", "USD"); err == nil {
		t.Fatalf("expected error for missing pair")
	}
}

func TestClientRate_NonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Quote{Source: "EUR", Target: "USD", Rate: decimal.Zero})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	if _, err := c.Rate(context.Background(), "EUR", "USD"); err == nil {
		t.Fatalf("expected error for non-positive rate")
	}
}

func TestClientRate_NotConfigured(t *testing.T) {
	var c *Client

	if _, err := c.Rate(context.Background(), "EUR", "USD"); err == nil {
		t.Fatalf("expected error for unconfigured client")
	}
}

func TestStatic_ReturnsConfiguredRate(t *testing.T) {
	s := NewStatic(DemoRate)

	rate, err := s.Rate(context.Background(), "EUR", "USD")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if !rate.Equal(DemoRate) {
		t.Fatalf("rate %s, want %s", rate, DemoRate)
	}
}
