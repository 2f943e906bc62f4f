// Package storage provides object storage implementations for receipt images.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shipshape/backend/internal/application/verification"
)

// StubImageStore keeps uploads in memory. Use for development and tests
// until a real storage backend is configured.
type StubImageStore struct {
	// BaseURL is the base URL used when generating download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubImageStore creates a new StubImageStore
func NewStubImageStore() *StubImageStore {
	return &StubImageStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

var _ verification.ReceiptImageStore = (*StubImageStore)(nil)

// Upload keeps the image data in memory
func (s *StubImageStore) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

// GenerateDownloadURL generates a stub download URL
func (s *StubImageStore) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// DeleteObject removes the image from memory
func (s *StubImageStore) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists checks whether the image was uploaded
func (s *StubImageStore) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}
