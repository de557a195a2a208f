package wclock

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquire_BasicRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "region.scm")

	lock, err := Acquire(path, DefaultTimeout)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	lock.Release()
}

func TestAcquire_SecondAcquireTimesOut(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "region.scm")

	first, err := Acquire(path, DefaultTimeout)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	defer first.Release()

	_, err = Acquire(path, 50*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestAcquire_ReleaseThenReacquire(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "region.scm")

	first, err := Acquire(path, DefaultTimeout)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	first.Release()

	second, err := Acquire(path, DefaultTimeout)
	if err != nil {
		t.Fatalf("second Acquire after release failed: %v", err)
	}

	second.Release()
}

func TestRelease_NilLockIsSafe(t *testing.T) {
	t.Parallel()

	var lock *Lock

	lock.Release() // must not panic
}
