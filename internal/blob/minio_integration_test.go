package blob

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pixvault/pixvault/internal/logger"
)

// createMinIOContainer starts a MinIO container and returns its endpoint.
func createMinIOContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image: "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		Cmd:   []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ACCESS_KEY": "minio_admin",
			"MINIO_SECRET_KEY": "minio_admin",
		},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp").WithStartupTimeout(20*time.Second),
			wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(20*time.Second),
		),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start MinIO container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := c.MappedPort(ctx, nat.Port("9000/tcp"))
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get mapped port: %w", err)
	}

	return c, fmt.Sprintf("%s:%s", host, mappedPort.Port()), nil
}

func TestMinioStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	c, endpoint, err := createMinIOContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	store, err := NewMinioStore(MinioConfig{
		Endpoint:        endpoint,
		AccessKeyID:     "minio_admin",
		SecretAccessKey: "minio_admin",
		UseSSL:          false,
		BucketName:      "pixvault-test",
		Region:          "us-east-1",
		PublicBase:      "/uploads",
	}, logger.NewNop())
	require.NoError(t, err)

	content := []byte("fake image bytes")

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "photo.jpg", strings.NewReader(string(content)), int64(len(content))))

		got, err := store.Get(ctx, "photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := store.Exists(ctx, "photo.jpg")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Exists(ctx, "missing.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("PutUnknownSize", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "streamed.jpg", strings.NewReader("streamed"), -1))

		got, err := store.Get(ctx, "streamed.jpg")
		require.NoError(t, err)
		assert.Equal(t, "streamed", string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "photo.jpg"))

		exists, err := store.Exists(ctx, "photo.jpg")
		require.NoError(t, err)
		assert.False(t, exists)

		assert.NoError(t, store.Delete(ctx, "photo.jpg"))
	})

	t.Run("URL", func(t *testing.T) {
		assert.Equal(t, "/uploads/a.jpg", store.URL("a.jpg"))
	})
}
