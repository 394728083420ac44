package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// BlobStore keeps uploaded files under string keys.
type BlobStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
	RemoveNamespace(ctx context.Context, namespace string) error
	URL(key string) string
}

// LocalStore writes blobs below a root directory that is served statically
// under publicPrefix.
type LocalStore struct {
	root         string
	publicPrefix string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: root, publicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// Remove deletes a single blob. A missing blob is not an error.
func (s *LocalStore) Remove(_ context.Context, key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveNamespace deletes every blob under namespace.
func (s *LocalStore) RemoveNamespace(_ context.Context, namespace string) error {
	full, err := s.resolve(namespace)
	if err != nil {
		return err
	}
	return os.RemoveAll(full)
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return path.Join(s.publicPrefix, key)
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps only the base name and replaces characters outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

// WisataNamespace is the key prefix holding one site's images.
func WisataNamespace(wisataID int64) string {
	return fmt.Sprintf("wisata/%d", wisataID)
}

// ImageKey builds a collision-free key for an uploaded image.
func ImageKey(wisataID int64, filename string) string {
	return fmt.Sprintf("%s/%s-%s", WisataNamespace(wisataID), uuid.NewString(), SanitizeFilename(filename))
}
