package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/afterdarksys/ratecached/pkg/rates"
)

// Client talks to an exchangerate-api.com style v6 endpoint. Requests carry
// the API key in the URL path, per the provider's scheme.
type Client struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	circuitBreaker *CircuitBreaker
}

// Config holds configuration for creating an HTTP client.
type Config struct {
	RequestTimeout          time.Duration
	DialTimeout             time.Duration
	KeepAlive               time.Duration
	MaxIdleConns            int
	IdleConnTimeout         time.Duration
	TLSHandshakeTimeout     time.Duration
	CircuitBreakerEnabled   bool
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerHalfOpen  int
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:          10 * time.Second,
		DialTimeout:             5 * time.Second,
		KeepAlive:               30 * time.Second,
		MaxIdleConns:            10,
		IdleConnTimeout:         90 * time.Second,
		TLSHandshakeTimeout:     10 * time.Second,
		CircuitBreakerEnabled:   true,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   60 * time.Second,
		CircuitBreakerHalfOpen:  3,
	}
}

func New(baseURL, apiKey string) *Client {
	return NewWithConfig(baseURL, apiKey, DefaultConfig())
}

// NewWithConfig creates a new client with custom configuration.
func NewWithConfig(baseURL, apiKey string, cfg *Config) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
	}

	if cfg.CircuitBreakerEnabled {
		c.circuitBreaker = NewCircuitBreaker(
			cfg.CircuitBreakerThreshold,
			cfg.CircuitBreakerTimeout,
			cfg.CircuitBreakerHalfOpen,
		)
	}

	return c
}

// latestResponse mirrors the v6 standard-request response shape.
// See: https://www.exchangerate-api.com/docs/standard-requests
type latestResponse struct {
	Result             string             `json:"result"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// LatestRates fetches the full rate table for a base currency and maps it
// into a snapshot. The provider's unix update timestamp becomes FetchedAt.
func (c *Client) LatestRates(ctx context.Context, base string) (*rates.Snapshot, error) {
	var snap *rates.Snapshot

	fetch := func() error {
		var err error
		snap, err = c.fetchLatest(ctx, base)
		return err
	}

	if c.circuitBreaker != nil {
		if err := c.circuitBreaker.Call(fetch); err != nil {
			return nil, err
		}
		return snap, nil
	}
	if err := fetch(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Client) fetchLatest(ctx context.Context, base string) (*rates.Snapshot, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.BaseURL, c.APIKey, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Result != "success" {
		return nil, fmt.Errorf("API returned result=%s error-type=%s", apiResp.Result, apiResp.ErrorType)
	}
	if len(apiResp.ConversionRates) == 0 {
		return nil, fmt.Errorf("API returned no conversion rates")
	}

	fetchedAt := time.Now()
	if apiResp.TimeLastUpdateUnix > 0 {
		fetchedAt = time.Unix(apiResp.TimeLastUpdateUnix, 0)
	}

	return &rates.Snapshot{
		Base:      apiResp.BaseCode,
		Rates:     apiResp.ConversionRates,
		FetchedAt: fetchedAt,
	}, nil
}

// ValidateKey checks the API key by requesting the base rate table.
func (c *Client) ValidateKey(ctx context.Context, base string) error {
	_, err := c.fetchLatest(ctx, base)
	return err
}
