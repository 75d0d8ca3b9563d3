package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixvault/pixvault/internal/logger"
	"github.com/pixvault/pixvault/internal/store"
)

type fakeRecords struct {
	byFilename map[string]*store.Image
	err        error
}

func (f *fakeRecords) FindByFilename(ctx context.Context, filename string) (*store.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byFilename[filename], nil
}

type fakeBlobURLs struct{}

func (fakeBlobURLs) URL(name string) string { return "/uploads/" + name }

func newEnricher(records *fakeRecords) *Enricher {
	return NewEnricher(records, fakeBlobURLs{}, logger.NewNop())
}

func TestEnrichEmptyInput(t *testing.T) {
	e := newEnricher(&fakeRecords{})

	results, err := e.Enrich(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEnrichMissingRecordUsesDefaults(t *testing.T) {
	e := newEnricher(&fakeRecords{})

	results, err := e.Enrich(context.Background(), []string{"uploads/unknown.jpg"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "unknown.jpg", results[0].Filename)
	assert.Equal(t, store.DefaultFolder, results[0].Folder)
	assert.Equal(t, DefaultCustomerLabel, results[0].Customer)
	assert.Equal(t, "/uploads/unknown.jpg", results[0].URL)
}

func TestEnrichAttachesMetadataAndCustomerLabel(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	customerID := uint(3)
	e := newEnricher(&fakeRecords{byFilename: map[string]*store.Image{
		"a.jpg": {
			ID:         1,
			Folder:     "products",
			CustomerID: &customerID,
			Customer:   &store.Customer{ID: customerID, Name: "Alice", Code: "KH0001"},
			CreatedAt:  created,
		},
	}})

	results, err := e.Enrich(context.Background(), []string{"uploads/a.jpg"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "products", results[0].Folder)
	assert.Equal(t, "Alice (KH0001)", results[0].Customer)
	assert.Equal(t, created, results[0].CreatedAt)
}

func TestEnrichRecordWithoutCustomer(t *testing.T) {
	e := newEnricher(&fakeRecords{byFilename: map[string]*store.Image{
		"a.jpg": {ID: 1, Folder: "products"},
	}})

	results, err := e.Enrich(context.Background(), []string{"a.jpg"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, DefaultCustomerLabel, results[0].Customer)
}

func TestEnrichPreservesOrderAndScoresDescend(t *testing.T) {
	e := newEnricher(&fakeRecords{})

	matches := []string{"m0.jpg", "m1.jpg", "m2.jpg", "m3.jpg"}
	results, err := e.Enrich(context.Background(), matches)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, matches[i], r.Filename)
		if i > 0 {
			assert.Less(t, r.Similarity, results[i-1].Similarity)
		}
	}
	assert.Equal(t, 100.0, results[0].Similarity)
	assert.Equal(t, 95.0, results[1].Similarity)
}

func TestEnrichScoreFloor(t *testing.T) {
	e := newEnricher(&fakeRecords{})

	matches := make([]string, 30)
	for i := range matches {
		matches[i] = "m.jpg"
	}

	results, err := e.Enrich(context.Background(), matches)
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, 5.0)
	}
	assert.Equal(t, 5.0, results[len(results)-1].Similarity)
}

func TestEnrichLookupFailureDegradesToDefaults(t *testing.T) {
	e := newEnricher(&fakeRecords{err: errors.New("store unavailable")})

	results, err := e.Enrich(context.Background(), []string{"a.jpg"})
	require.NoError(t, err, "a metadata failure must not fail the search")
	require.Len(t, results, 1)
	assert.Equal(t, store.DefaultFolder, results[0].Folder)
	assert.Equal(t, DefaultCustomerLabel, results[0].Customer)
}

func TestEnrichResultIDsAreUnique(t *testing.T) {
	e := newEnricher(&fakeRecords{})

	results, err := e.Enrich(context.Background(), []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].ID, results[1].ID)
	assert.NotEmpty(t, results[0].ID)
}
