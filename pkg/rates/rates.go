package rates

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot holds one complete set of exchange rates relative to a base
// currency, fetched at a single point in time. Cache tiers store and return
// whole snapshots, never individual rates.
type Snapshot struct {
	Base      string             `json:"base" yaml:"base"`
	Rates     map[string]float64 `json:"rates" yaml:"rates"`
	FetchedAt time.Time          `json:"fetched_at" yaml:"fetched_at"`
}

// Rate returns the rate for a currency code relative to the base currency.
func (s *Snapshot) Rate(code string) (float64, bool) {
	rate, ok := s.Rates[code]
	return rate, ok
}

// Convert converts an amount between two currencies using this snapshot.
func (s *Snapshot) Convert(amount float64, from, to string) (float64, error) {
	fromRate, ok := s.Rates[from]
	if !ok {
		return 0, fmt.Errorf("unknown currency: %s", from)
	}
	if fromRate == 0 {
		return 0, fmt.Errorf("zero rate for currency: %s", from)
	}
	toRate, ok := s.Rates[to]
	if !ok {
		return 0, fmt.Errorf("unknown currency: %s", to)
	}
	return amount / fromRate * toRate, nil
}

// Encode serializes a snapshot for durable storage.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode deserializes a stored snapshot. A snapshot without rates is treated
// as malformed, not as empty.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if len(s.Rates) == 0 {
		return nil, fmt.Errorf("decoded snapshot has no rates")
	}
	return &s, nil
}
