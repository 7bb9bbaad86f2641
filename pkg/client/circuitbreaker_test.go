package client

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(3, 100*time.Millisecond, 2)

	if cb.State() != StateClosed {
		t.Error("Circuit should start closed")
	}

	// Successful requests keep the circuit closed
	for i := 0; i < 5; i++ {
		err := cb.Call(func() error {
			return nil
		})
		if err != nil {
			t.Errorf("Closed circuit should allow requests: %v", err)
		}
	}

	// Failures open the circuit once the threshold is reached
	for i := 0; i < 3; i++ {
		cb.Call(func() error {
			return errors.New("failure")
		})
	}

	if cb.State() != StateOpen {
		t.Error("Circuit should be open after threshold failures")
	}

	err := cb.Call(func() error {
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Open circuit should reject requests, got: %v", err)
	}

	// After the timeout the circuit goes half-open and recovers on success
	time.Sleep(150 * time.Millisecond)

	for i := 0; i < 2; i++ {
		cb.Call(func() error {
			return nil
		})
	}

	if cb.State() != StateClosed {
		t.Error("Circuit should close after successful half-open requests")
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(2, 1*time.Second, 2)

	for i := 0; i < 2; i++ {
		cb.Call(func() error {
			return errors.New("failure")
		})
	}
	if cb.State() != StateOpen {
		t.Error("Circuit should be open after failures")
	}

	cb.Reset()
	if cb.State() != StateClosed {
		t.Error("Reset should close the circuit")
	}
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker(100, 1*time.Second, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb.Call(func() error {
			return nil
		})
	}
}
