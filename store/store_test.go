package store

import (
	"testing"
	"time"
)

func TestAcquireGetRelease(t *testing.T) {
	st := New(time.Minute)

	handle := st.Acquire([]byte("preview-bytes"), "image/jpeg")
	if handle == "" {
		t.Fatal("Acquire returned an empty handle")
	}

	blob, ok := st.Get(handle)
	if !ok {
		t.Fatal("live handle not found")
	}
	if string(blob.Data) != "preview-bytes" || blob.ContentType != "image/jpeg" {
		t.Errorf("unexpected blob: %+v", blob)
	}
	if st.Live() != 1 {
		t.Errorf("expected 1 live handle, got %d", st.Live())
	}

	if !st.Release(handle) {
		t.Error("first release should succeed")
	}
	if _, ok := st.Get(handle); ok {
		t.Error("released handle should not resolve")
	}
	if st.Live() != 0 {
		t.Errorf("expected 0 live handles, got %d", st.Live())
	}
}

func TestDoubleReleaseIsNoOp(t *testing.T) {
	st := New(time.Minute)

	handle := st.Acquire([]byte("x"), "image/png")
	if !st.Release(handle) {
		t.Fatal("first release should succeed")
	}
	if st.Release(handle) {
		t.Error("second release of the same handle must report false")
	}
	if st.Release("") {
		t.Error("releasing the empty handle must be a no-op")
	}
	if st.Release("no-such-handle") {
		t.Error("releasing an unknown handle must report false")
	}
}

func TestHandlesAreDistinct(t *testing.T) {
	st := New(time.Minute)

	a := st.Acquire([]byte("same-bytes"), "image/png")
	b := st.Acquire([]byte("same-bytes"), "image/png")
	if a == b {
		t.Fatal("identical payloads must still get distinct handles")
	}

	st.Release(a)
	if _, ok := st.Get(b); !ok {
		t.Error("releasing one handle must not affect the other")
	}
	if st.Live() != 1 {
		t.Errorf("expected 1 live handle, got %d", st.Live())
	}
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	st := New(0)
	handle := st.Acquire([]byte("x"), "image/png")
	if _, ok := st.Get(handle); !ok {
		t.Error("store with default TTL should hold fresh handles")
	}
}
