package scm_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mstrachan/wordtree/pkg/scm"
)

const testCapacity = 1 << 20 // 1 MiB, plenty for these tests

func openFresh(t *testing.T) (*scm.Handle, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "region.scm")

	h, err := scm.Open(scm.OpenOptions{Path: path, Truncate: true, Capacity: testCapacity})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() {
		_ = h.Close()
	})

	return h, path
}

func TestOpen_FreshRegionIsNotUtilized(t *testing.T) {
	h, _ := openFresh(t)

	if h.Utilized() {
		t.Fatalf("expected fresh region to be unutilized")
	}
}

func TestBase_EqualsFirstAllocation(t *testing.T) {
	h, _ := openFresh(t)

	p, err := h.Allocate(24)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if p != h.Base() {
		t.Fatalf("first allocation %#x does not equal Base() %#x", p, h.Base())
	}

	if !h.Utilized() {
		t.Fatalf("expected region to be utilized after first allocation")
	}
}

func TestAllocate_Locality_FreeThenAllocateReturnsSamePointer(t *testing.T) {
	h, _ := openFresh(t)

	p1, err := h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if err := h.Free(p1); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	p2, err := h.Allocate(32)
	if err != nil {
		t.Fatalf("second Allocate failed: %v", err)
	}

	if p1 != p2 {
		t.Fatalf("expected first-fit reuse to return %#x, got %#x", p1, p2)
	}
}

func TestAllocate_SmallerSizeReusesOversizedFreedSlot(t *testing.T) {
	h, _ := openFresh(t)

	p1, err := h.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if err := h.Free(p1); err != nil {
		t.Fatalf("Free failed: %v", err)
	}

	p2, err := h.Allocate(8)
	if err != nil {
		t.Fatalf("second Allocate failed: %v", err)
	}

	if p1 != p2 {
		t.Fatalf("expected reuse of oversized free slot, got different pointer %#x vs %#x", p1, p2)
	}
}

func TestAllocate_ExhaustionReturnsErrRegionExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.scm")

	h, err := scm.Open(scm.OpenOptions{Path: path, Truncate: true, Capacity: 32})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer h.Close()

	_, err = h.Allocate(1000)
	if !errors.Is(err, scm.ErrRegionExhausted) {
		t.Fatalf("expected ErrRegionExhausted, got %v", err)
	}
}

func TestDuplicateString_RoundTrips(t *testing.T) {
	h, _ := openFresh(t)

	p, err := h.DuplicateString("apple")
	if err != nil {
		t.Fatalf("DuplicateString failed: %v", err)
	}

	got, err := h.ReadCString(p)
	if err != nil {
		t.Fatalf("ReadCString failed: %v", err)
	}

	if got != "apple" {
		t.Fatalf("ReadCString = %q, want %q", got, "apple")
	}
}

func TestOpen_RejectsNonRegularFile(t *testing.T) {
	dir := t.TempDir()

	_, err := scm.Open(scm.OpenOptions{Path: dir, Truncate: false})
	if !errors.Is(err, scm.ErrNotRegularFile) {
		t.Fatalf("expected ErrNotRegularFile, got %v", err)
	}
}

func TestOpen_MissingFileWithoutCapacityFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.scm")

	_, err := scm.Open(scm.OpenOptions{Path: path})
	if !errors.Is(err, scm.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReopen_WithoutTruncatePreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.scm")

	h1, err := scm.Open(scm.OpenOptions{Path: path, Truncate: true, Capacity: testCapacity})
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	p, err := h1.DuplicateString("zeta")
	if err != nil {
		t.Fatalf("DuplicateString failed: %v", err)
	}

	if err := h1.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	h2, err := scm.Open(scm.OpenOptions{Path: path})
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer h2.Close()

	if !h2.Utilized() {
		t.Fatalf("expected reopened region to report utilized")
	}

	got, err := h2.ReadCString(p)
	if err != nil {
		t.Fatalf("ReadCString after reopen failed: %v", err)
	}

	if got != "zeta" {
		t.Fatalf("ReadCString after reopen = %q, want %q", got, "zeta")
	}
}
