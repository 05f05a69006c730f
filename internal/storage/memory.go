package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryBlobStore is an in-memory BlobStore for tests and local development.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// FailKeys lists keys whose Delete should fail, for exercising the
	// best-effort purge paths in tests.
	FailKeys map[string]bool
}

// NewMemoryBlobStore creates an empty in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects:  make(map[string][]byte),
		FailKeys: make(map[string]bool),
	}
}

// Put stores an object under the given key
func (s *MemoryBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// Get retrieves an object and writes it to w
func (s *MemoryBlobStore) Get(ctx context.Context, key string, w io.Writer) error {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("object not found: %s", key)
	}

	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

// Delete removes an object; absent keys are a no-op
func (s *MemoryBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKeys[key] {
		return fmt.Errorf("delete object %s: simulated storage failure", key)
	}
	delete(s.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (s *MemoryBlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Has reports whether an object exists.
func (s *MemoryBlobStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}
