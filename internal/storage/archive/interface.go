// internal/storage/archive/interface.go
package archive

import "context"

// Storage is a write-mostly blob store for scan snapshots.
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix
	List(ctx context.Context, prefix string) ([]string, error)
}

// Discard is a Storage that drops every write. It backs the "none" archive
// type.
type Discard struct{}

func (Discard) Write(ctx context.Context, path string, data []byte) error { return nil }

func (Discard) Read(ctx context.Context, path string) ([]byte, error) { return nil, nil }

func (Discard) List(ctx context.Context, prefix string) ([]string, error) { return []string{}, nil }
