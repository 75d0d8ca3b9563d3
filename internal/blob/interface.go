package blob

import (
	"context"
	"fmt"
	"io"
)

// Logger defines the interface for logging operations within the blob package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store is durable storage for uploaded binary files, addressed by generated
// filename. The store exclusively owns blob lifetime; metadata records hold
// only non-owning filename references.
//
// Implemented by *DiskStore and *MinioStore.
type Store interface {
	// Put writes the blob under name, replacing any previous content.
	Put(ctx context.Context, name string, r io.Reader, size int64) error

	// Get returns the blob's contents.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// Exists reports whether a blob with the given name is stored.
	Exists(ctx context.Context, name string) (bool, error)

	// URL returns the public path under which the blob is served.
	URL(name string) string
}

// NewStore constructs the Store selected by cfg.Driver.
func NewStore(cfg Config, logger Logger) (Store, error) {
	switch cfg.Driver {
	case DriverDisk:
		return NewDiskStore(cfg.Disk, logger)
	case DriverMinio:
		return NewMinioStore(cfg.Minio, logger)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
