package rates

import (
	"testing"
	"time"
)

func TestConvert(t *testing.T) {
	snap := &Snapshot{
		Base:      "USD",
		Rates:     map[string]float64{"USD": 1, "EUR": 0.8, "JPY": 150},
		FetchedAt: time.Now(),
	}

	got, err := snap.Convert(100, "USD", "EUR")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if got != 80 {
		t.Errorf("Expected 80, got %f", got)
	}

	// Cross rate through the base currency
	got, err = snap.Convert(150, "JPY", "EUR")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if got != 0.8 {
		t.Errorf("Expected 0.8, got %f", got)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	snap := &Snapshot{
		Base:  "USD",
		Rates: map[string]float64{"USD": 1},
	}

	if _, err := snap.Convert(100, "XXX", "USD"); err == nil {
		t.Error("Expected error for unknown source currency")
	}
	if _, err := snap.Convert(100, "USD", "XXX"); err == nil {
		t.Error("Expected error for unknown target currency")
	}
}

func TestDecodeRejectsEmptySnapshot(t *testing.T) {
	if _, err := Decode([]byte(`{"base":"USD","rates":{}}`)); err == nil {
		t.Error("Expected error for a snapshot without rates")
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("Expected error for malformed data")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := &Snapshot{
		Base:      "EUR",
		Rates:     map[string]float64{"EUR": 1, "USD": 1.17},
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Base != want.Base || got.Rates["USD"] != want.Rates["USD"] || !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("Round trip mismatch: got %+v", got)
	}
}
