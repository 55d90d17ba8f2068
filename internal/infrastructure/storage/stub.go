package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// StubObjectStorage is a placeholder implementation of ImageStorage used when storage is disabled.
// Uploads are drained and discarded; returned URLs point at BaseURL.
type StubObjectStorage struct {
	// BaseURL is the base of returned image URLs
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "https://storage.example.com"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Ensure StubObjectStorage implements ImageStorage
var _ catalogapp.ImageStorage = (*StubObjectStorage)(nil)

// Upload consumes body and returns a stub URL for key
func (s *StubObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

// Delete is a no-op stub that always succeeds
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
