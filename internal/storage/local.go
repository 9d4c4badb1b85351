package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// LocalStorage implements ObjectStorage using a directory on local
// disk. Playback URLs point at the server's own /media route, so the
// "signature" is the public base URL and ttl is ignored.
type LocalStorage struct {
	baseDir       string
	publicBaseURL string
	log           zerolog.Logger
}

// Verify interface compliance
var _ ObjectStorage = (*LocalStorage)(nil)

// NewLocal creates a disk-backed object storage rooted at baseDir
func NewLocal(baseDir, publicBaseURL string, log zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}

	return &LocalStorage{
		baseDir:       baseDir,
		publicBaseURL: publicBaseURL,
		log:           log.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Upload writes the object to disk and flushes it before returning
func (s *LocalStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	fullPath := filepath.Join(s.baseDir, filepath.Base(key))

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", fullPath, err)
	}

	s.log.Debug().
		Str("key", key).
		Int64("bytes", written).
		Str("content_type", contentType).
		Msg("Object stored")

	return nil
}

// Open returns the file stream and a content type derived from the key
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(s.baseDir, filepath.Base(key))

	f, err := os.Open(fullPath)
	if os.IsNotExist(err) {
		return nil, "", ErrObjectNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file %s: %w", fullPath, err)
	}
	return f, ContentTypeByName(key), nil
}

// SignedURL returns the public playback URL for the object
func (s *LocalStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.publicBaseURL + "/media/" + key, nil
}

// List returns up to max objects in the storage directory
func (s *LocalStorage) List(ctx context.Context, max int) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, ObjectInfo{
			Key:          entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime(),
			URL:          s.publicBaseURL + "/media/" + entry.Name(),
		})
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
	if max > 0 && len(objects) > max {
		objects = objects[:max]
	}
	return objects, nil
}

// Delete removes the object from disk
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(s.baseDir, filepath.Base(key))

	err := os.Remove(fullPath)
	if os.IsNotExist(err) {
		return ErrObjectNotFound
	}
	return err
}
