package media

import "context"

// FileStorage writes, checks and removes image files by key
type FileStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public path clients fetch key from
	URL(key string) string
}
