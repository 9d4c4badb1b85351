package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrObjectNotFound is returned when no object exists for the given key
var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage defines the interface for video content storage.
// Implementations are backed by the local filesystem or a remote
// object-storage bucket.
type ObjectStorage interface {
	// Upload stores an object under the given key. size must match the
	// number of bytes readable from r.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Open retrieves an object as a stream along with its content type.
	// Caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// SignedURL returns a playback URL for the object, valid for ttl
	// where the backend supports expiry.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// List returns up to max stored objects
	List(ctx context.Context, max int) ([]ObjectInfo, error)

	// Delete removes an object from the storage
	Delete(ctx context.Context, key string) error
}

// ObjectInfo contains metadata about a stored object
type ObjectInfo struct {
	Key          string    `json:"filename"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ContentTypeByName guesses a content type from the file extension,
// falling back to application/octet-stream
func ContentTypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
