// Package store holds transient display resources (preview and result
// images) in memory. Every handle returned by Acquire must be released
// exactly once: on session reset, on replacement by a newer resource in the
// same slot, or on teardown. Release clears the entry, so a second release
// of the same handle is a detectable no-op rather than a double-free.
package store

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/google/uuid"
)

// DefaultTTL guards against leaks from a UI that vanished mid-session; the
// session itself releases handles long before expiry in normal operation.
const DefaultTTL = 60 * time.Minute

// Blob is an acquired display resource.
type Blob struct {
	ID          string
	ContentType string
	Data        []byte
}

// Store allocates and frees process-local blob handles.
type Store struct {
	mu    sync.Mutex
	blobs *ttlworker.Cache[string, Blob]
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		blobs: ttlworker.NewCache[string, Blob](ttl),
	}
}

// Acquire allocates a fresh handle for the given bytes.
func (s *Store) Acquire(data []byte, contentType string) string {
	handle := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs.Set(handle, Blob{ID: handle, ContentType: contentType, Data: data})
	return handle
}

// Release frees a handle. Returns false when the handle is unknown or was
// already released, which callers treat as a no-op.
func (s *Store) Release(handle string) bool {
	if handle == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs.Get(handle).ID == "" {
		return false
	}
	s.blobs.Delete(handle)
	return true
}

// Get looks up a live handle for display or export.
func (s *Store) Get(handle string) (Blob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob := s.blobs.Get(handle)
	return blob, blob.ID != ""
}

// Live returns the number of handles currently held.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	_ = s.blobs.Range(func(string, Blob) error {
		count++
		return nil
	})
	return count
}
