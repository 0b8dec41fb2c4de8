package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore keeps objects in process memory. It is meant for tests and
// local development.
type MemoryStore struct {
	mu        sync.Mutex
	baseURL   string
	objects   map[string]Object
	puts      int
	DeleteErr error // returned by Delete when set
}

// Object is a stored blob.
type Object struct {
	Data        []byte
	ContentType string
}

// NewMemoryStore creates an empty store serving URLs under baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		objects: make(map[string]Object),
	}
}

func (s *MemoryStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: data, ContentType: contentType}
	s.puts++
	return s.baseURL + key, nil
}

func (s *MemoryStore) Delete(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if !strings.HasPrefix(rawURL, s.baseURL) {
		return fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	key := strings.TrimPrefix(rawURL, s.baseURL)
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	delete(s.objects, key)
	return nil
}

// Get returns the object stored at key.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Puts returns how many writes the store has accepted.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
