package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps blobs as objects in an S3-compatible bucket.
type MinioStore struct {
	client     *minio.Client
	cfg        MinioConfig
	publicBase string
	logger     Logger
}

// NewMinioStore creates and validates a new MinIO-backed store.
// It connects to the server and ensures the configured bucket exists.
func NewMinioStore(cfg MinioConfig, logger Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		logger.Error("failed to connect to minio", err, map[string]interface{}{
			"endpoint": cfg.Endpoint,
			"secure":   cfg.UseSSL,
			"bucket":   cfg.BucketName,
		})
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	m := &MinioStore{
		client:     client,
		cfg:        cfg,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		logger:     logger,
	}
	if err := m.ensureBucket(); err != nil {
		return nil, err
	}
	return m, nil
}

// ensureBucket verifies the connection and creates the bucket when missing.
func (m *MinioStore) ensureBucket() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, m.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.cfg.BucketName, err)
	}
	if exists {
		return nil
	}

	err = m.client.MakeBucket(ctx, m.cfg.BucketName, minio.MakeBucketOptions{Region: m.cfg.Region})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.cfg.BucketName, err)
	}
	m.logger.Info("created minio bucket", nil, map[string]interface{}{
		"bucket": m.cfg.BucketName,
	})
	return nil
}

// Put uploads an object, replacing any previous object of the same name.
func (m *MinioStore) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	if size <= 0 {
		// Unknown size: buffer so the SDK gets an exact length.
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to buffer blob %s: %w", name, err)
		}
		r = bytes.NewReader(data)
		size = int64(len(data))
	}

	_, err := m.client.PutObject(ctx, m.cfg.BucketName, name, r, size, minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", name, err)
	}
	return nil
}

// Get retrieves an object and returns its contents.
func (m *MinioStore) Get(ctx context.Context, name string) ([]byte, error) {
	reader, err := m.client.GetObject(ctx, m.cfg.BucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", name, err)
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			m.logger.Error("failed to close object reader", cerr, nil)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Delete removes an object. Removing a missing object is not an error.
func (m *MinioStore) Delete(ctx context.Context, name string) error {
	err := m.client.RemoveObject(ctx, m.cfg.BucketName, name, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	return nil
}

// Exists reports whether an object with the given name is stored.
func (m *MinioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.cfg.BucketName, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat blob %s: %w", name, err)
	}
	return true, nil
}

// URL returns the public path for the object.
func (m *MinioStore) URL(name string) string {
	return m.publicBase + "/" + name
}
