package archive

import "context"

// Storage defines the interface for cold/archive storage backends.
// Paths are slash-separated and relative to the backend root.
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path. A missing path yields core.ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under the prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}

// Options selects and configures a backend.
type Options struct {
	Type string // "none", "localfs" or "s3"
	Path string
	S3   S3Config
}

// Open returns the backend named by opts.Type, or nil for "none".
func Open(opts Options) (Storage, error) {
	switch opts.Type {
	case "", "none":
		return nil, nil
	case "localfs":
		fs, err := NewLocalFS(opts.Path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case "s3":
		s, err := NewS3(opts.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, unknownBackend(opts.Type)
	}
}
