package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps blobs as plain files inside one directory.
type DiskStore struct {
	dir        string
	publicBase string
	logger     Logger
}

// NewDiskStore creates the upload directory if needed and returns the store.
func NewDiskStore(cfg DiskConfig, logger Logger) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", cfg.Directory, err)
	}
	return &DiskStore{
		dir:        cfg.Directory,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		logger:     logger,
	}, nil
}

// path resolves name inside the store directory. The base-name restriction
// keeps client-supplied names from escaping it.
func (d *DiskStore) path(name string) string {
	return filepath.Join(d.dir, filepath.Base(name))
}

// Put writes the blob, replacing any previous file of the same name.
func (d *DiskStore) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(d.path(name))
	if err != nil {
		return fmt.Errorf("failed to create blob %s: %w", name, err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", name, err)
	}

	if size > 0 && written != size {
		d.logger.Warn("blob size mismatch", nil, map[string]interface{}{
			"name":     name,
			"expected": size,
			"written":  written,
		})
	}
	return nil
}

// Get returns the blob's contents.
func (d *DiskStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Delete removes the blob's file. A missing file is not an error.
func (d *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(d.path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the blob's file is present.
func (d *DiskStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(d.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// URL returns the public path for the blob.
func (d *DiskStore) URL(name string) string {
	return d.publicBase + "/" + filepath.Base(name)
}

// Dir returns the directory blobs are stored in. Used by the HTTP layer to
// serve the upload directory statically.
func (d *DiskStore) Dir() string {
	return d.dir
}
