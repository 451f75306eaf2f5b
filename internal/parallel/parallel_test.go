package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	var counter int64
	n := 1000

	err := For(n, 4, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != int64(n) {
		t.Errorf("expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	order := make([]int, 0, 100)

	err := For(100, 1, func(i int) error {
		order = append(order, i)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// workers=1 must run in order on the calling goroutine.
	for i, v := range order {
		if i != v {
			t.Fatalf("sequential path ran out of order at %d: %d", i, v)
		}
	}
}

func TestFor_DefaultWorkers(t *testing.T) {
	var counter int64

	if err := For(64, -1, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 64 {
		t.Errorf("expected 64, got %d", counter)
	}
}

func TestFor_Error(t *testing.T) {
	sentinel := errors.New("boom")

	err := For(10, 2, func(i int) error {
		if i == 7 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}
