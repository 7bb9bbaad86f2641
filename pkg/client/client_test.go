package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLatestRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/key123/latest/EUR" {
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"result": "success",
			"time_last_update_unix": 1754006400,
			"base_code": "EUR",
			"conversion_rates": {"EUR": 1, "USD": 1.17}
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "key123")
	snap, err := c.LatestRates(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("LatestRates failed: %v", err)
	}
	if snap.Base != "EUR" {
		t.Errorf("Expected base EUR, got %s", snap.Base)
	}
	if snap.Rates["USD"] != 1.17 {
		t.Errorf("Expected USD rate 1.17, got %f", snap.Rates["USD"])
	}
	if snap.FetchedAt.Unix() != 1754006400 {
		t.Errorf("Expected provider timestamp, got %v", snap.FetchedAt)
	}
}

func TestLatestRatesNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "key123")
	if _, err := c.LatestRates(context.Background(), "USD"); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestLatestRatesCircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.CircuitBreakerThreshold = 2
	cfg.CircuitBreakerTimeout = time.Minute
	c := NewWithConfig(srv.URL, "key123", cfg)

	for i := 0; i < 2; i++ {
		c.LatestRates(context.Background(), "USD")
	}

	_, err := c.LatestRates(context.Background(), "USD")
	if err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen after repeated failures, got %v", err)
	}
}
