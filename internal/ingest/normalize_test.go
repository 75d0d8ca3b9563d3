package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixvault/pixvault/internal/logger"
)

func TestNormalizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.jpg"},
		{"photo.jpeg", "photo.jpg"},
		{"photo.jpg", "photo.jpg"},
		{"archive.tar.gz", "archive.tar.jpg"},
		{"noext", "noext.jpg"},
		{"dir/sub/photo.png", "photo.jpg"},
		{"../../etc/passwd", "passwd.jpg"},
		{".hidden", "file.jpg"},
		{"", "file.jpg"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeFilename(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeBatchCollision(t *testing.T) {
	batch := normalizeBatch([]Upload{
		{OriginalName: "a.png", Content: []byte("1")},
		{OriginalName: "b.png", Content: []byte("2")},
		{OriginalName: "a.gif", Content: []byte("3")},
	}, logger.NewNop())

	// The colliding name keeps its first position but the last content.
	assert.Len(t, batch, 2)
	assert.Equal(t, "a.jpg", batch[0].StoredName)
	assert.Equal(t, []byte("3"), batch[0].Content)
	assert.Equal(t, "b.jpg", batch[1].StoredName)
}
