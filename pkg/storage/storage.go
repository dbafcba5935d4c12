package storage

import (
	"context"
	"errors"
	"os"
)

var (
	// ErrNotFound is returned when the requested object is not in the store.
	ErrNotFound = errors.New("Object not found")
)

// Storage is a bucket style document store. Keys are slash separated paths
// under a root bucket.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error

	// Search returns the bodies of all objects under the "path" query key.
	Search(ctx context.Context, query map[string]string) ([][]byte, error)

	// List returns the keys under a given path.
	List(ctx context.Context, path string) ([]string, error)

	// Clear removes all objects under the "path" query key.
	Clear(ctx context.Context, query map[string]string) error
}

// Options alter the behavior of a write.
type Options struct {
	Mode    os.FileMode
	DirMode os.FileMode
	TTL     int64 // Seconds until the object expires. S3 only.
}

// NewOptions returns Options with usable defaults.
func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}
