package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixvault/pixvault/internal/logger"
	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/tracer"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// fakeRecords is an in-memory ImageRecords implementation.
type fakeRecords struct {
	mu      sync.Mutex
	nextID  uint
	records map[uint]*store.Image

	createErr error
	removeErr error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[uint]*store.Image)}
}

func (f *fakeRecords) CreateRecord(ctx context.Context, names []string, folder string, customerID *uint) (*store.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	if len(names) == 0 {
		return nil, store.ErrValidation
	}

	f.nextID++
	img := &store.Image{ID: f.nextID, Folder: folder, CustomerID: customerID, CreatedAt: time.Now()}
	for i, n := range names {
		img.Filenames = append(img.Filenames, store.ImageFilename{ImageID: img.ID, Position: i, Filename: n})
	}
	f.records[img.ID] = img
	return img, nil
}

func (f *fakeRecords) AppendFilenames(ctx context.Context, imageID uint, names []string) (*store.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	img, ok := f.records[imageID]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, n := range names {
		img.Filenames = append(img.Filenames, store.ImageFilename{ImageID: imageID, Position: len(img.Filenames), Filename: n})
	}
	return img, nil
}

func (f *fakeRecords) Get(ctx context.Context, id uint) (*store.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	img, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return img, nil
}

func (f *fakeRecords) FindByFilename(ctx context.Context, filename string) (*store.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, img := range f.records {
		for _, n := range img.Filenames {
			if n.Filename == filename {
				return img, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeRecords) RemoveFilename(ctx context.Context, filename string) (*store.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.removeErr != nil {
		return nil, f.removeErr
	}

	for id, img := range f.records {
		for i, n := range img.Filenames {
			if n.Filename != filename {
				continue
			}
			if len(img.Filenames) == 1 {
				delete(f.records, id)
				return img, nil
			}
			img.Filenames = append(img.Filenames[:i], img.Filenames[i+1:]...)
			return img, nil
		}
	}
	return nil, nil
}

func (f *fakeRecords) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeBlobs records every Put and can be told to fail.
type fakeBlobs struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string

	putErr    error
	deleteErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{blobs: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return f.putErr
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.blobs[name] = content
	return nil
}

func (f *fakeBlobs) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blobs, name)
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeBlobs) URL(name string) string {
	return "/uploads/" + name
}

// fakeIndexer records calls in order and can be told to fail per operation.
type fakeIndexer struct {
	mu    sync.Mutex
	calls []string

	addErr    error
	batchErr  error
	deleteErr error
}

func (f *fakeIndexer) Add(ctx context.Context, file vectorindex.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "add:"+file.Name)
	return f.addErr
}

func (f *fakeIndexer) AddBatch(ctx context.Context, files []vectorindex.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := ""
	for _, file := range files {
		names += file.Name + ";"
	}
	f.calls = append(f.calls, "add-batch:"+names)
	return f.batchErr
}

func (f *fakeIndexer) Delete(ctx context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+filename)
	return f.deleteErr
}

func (f *fakeIndexer) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeMetrics counts instrument calls.
type fakeMetrics struct {
	mu          sync.Mutex
	ingests     map[string]int
	files       int
	tasks       map[string]int
	divergences int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{ingests: make(map[string]int), tasks: make(map[string]int)}
}

func (f *fakeMetrics) IngestRequest(mode, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ingests[mode+"/"+status]++
}

func (f *fakeMetrics) IngestFiles(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files += n
}

func (f *fakeMetrics) IndexTask(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[status]++
}

func (f *fakeMetrics) IndexRequest(op string, d time.Duration) {}

func (f *fakeMetrics) DeleteDivergence() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.divergences++
}

func (f *fakeMetrics) taskCount(status string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[status]
}

// fakeDeadLetter captures published payloads.
type fakeDeadLetter struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakeDeadLetter) Publish(ctx context.Context, msg []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, append([]byte(nil), msg...))
	return nil
}

func (f *fakeDeadLetter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type pipelineFixture struct {
	pipeline   *Pipeline
	pool       *Pool
	records    *fakeRecords
	blobs      *fakeBlobs
	index      *fakeIndexer
	metrics    *fakeMetrics
	deadLetter *fakeDeadLetter
}

func newPipelineFixture() *pipelineFixture {
	log := logger.NewNop()
	pool := NewPool(Config{Workers: 2, TaskTimeout: 5 * time.Second}, log)

	f := &pipelineFixture{
		pool:       pool,
		records:    newFakeRecords(),
		blobs:      newFakeBlobs(),
		index:      &fakeIndexer{},
		metrics:    newFakeMetrics(),
		deadLetter: &fakeDeadLetter{},
	}
	f.pipeline = NewPipeline(f.blobs, f.records, f.index, pool, f.deadLetter, f.metrics, tracer.NewClient(tracer.Config{ServiceName: "test"}, log), log)
	return f
}

func TestIngestPersistsAcksAndRecords(t *testing.T) {
	f := newPipelineFixture()
	customerID := uint(7)

	receipt, err := f.pipeline.Ingest(context.Background(), []Upload{
		{OriginalName: "a.png", Content: []byte("aaa")},
		{OriginalName: "b.png", Content: []byte("bbb")},
	}, &customerID, "products")
	require.NoError(t, err)

	// Acknowledgment lists the normalized blob paths in submission order.
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, receipt.Paths)
	assert.Equal(t, []byte("aaa"), f.blobs.blobs["a.jpg"])
	assert.Equal(t, []byte("bbb"), f.blobs.blobs["b.jpg"])

	f.pool.Drain()

	require.Equal(t, 1, f.records.count())
	record, err := f.records.FindByFilename(context.Background(), "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, record.Names())
	assert.Equal(t, "products", record.Folder)
	require.NotNil(t, record.CustomerID)
	assert.Equal(t, customerID, *record.CustomerID)

	assert.Equal(t, []string{"add-batch:a.jpg;b.jpg;"}, f.index.callList())
	assert.Equal(t, 1, f.metrics.taskCount("ok"))
}

func TestIngestDefaultsFolder(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.pipeline.Ingest(context.Background(), []Upload{
		{OriginalName: "x.png", Content: []byte("x")},
	}, nil, "")
	require.NoError(t, err)

	f.pool.Drain()

	record, err := f.records.FindByFilename(context.Background(), "x.jpg")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, store.DefaultFolder, record.Folder)
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.pipeline.Ingest(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, store.ErrValidation)
}

func TestIngestBlobFailureAbortsBeforeIndexing(t *testing.T) {
	f := newPipelineFixture()
	f.blobs.putErr = errors.New("disk full")

	_, err := f.pipeline.Ingest(context.Background(), []Upload{
		{OriginalName: "a.png", Content: []byte("a")},
	}, nil, "")
	assert.ErrorIs(t, err, ErrIngestionFailed)

	f.pool.Drain()
	assert.Empty(t, f.index.callList())
	assert.Equal(t, 0, f.records.count())
}

func TestIngestIndexFailureLeavesNoRecord(t *testing.T) {
	f := newPipelineFixture()
	f.index.batchErr = errors.New("sidecar down")

	receipt, err := f.pipeline.Ingest(context.Background(), []Upload{
		{OriginalName: "a.png", Content: []byte("a")},
		{OriginalName: "b.png", Content: []byte("b")},
	}, nil, "")

	// The caller is acknowledged with both paths even though indexing
	// will fail; the blobs stay behind without a record.
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, receipt.Paths)

	f.pool.Drain()

	assert.Equal(t, 0, f.records.count())
	assert.Len(t, f.blobs.blobs, 2)
	assert.Equal(t, 1, f.metrics.taskCount("failed"))
	assert.Equal(t, 1, f.deadLetter.count())
}

func TestIngestCollisionLastWriteWins(t *testing.T) {
	f := newPipelineFixture()

	receipt, err := f.pipeline.Ingest(context.Background(), []Upload{
		{OriginalName: "dup.png", Content: []byte("first")},
		{OriginalName: "dup.gif", Content: []byte("second")},
	}, nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"/uploads/dup.jpg"}, receipt.Paths)
	assert.Equal(t, []byte("second"), f.blobs.blobs["dup.jpg"])

	f.pool.Drain()

	record, err := f.records.FindByFilename(context.Background(), "dup.jpg")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"dup.jpg"}, record.Names())
}

func TestIngestAppend(t *testing.T) {
	f := newPipelineFixture()

	seed, err := f.records.CreateRecord(context.Background(), []string{"first.jpg"}, "products", nil)
	require.NoError(t, err)

	receipt, err := f.pipeline.IngestAppend(context.Background(), seed.ID, []Upload{
		{OriginalName: "second.png", Content: []byte("2")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/second.jpg"}, receipt.Paths)

	f.pool.Drain()

	record, err := f.records.Get(context.Background(), seed.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first.jpg", "second.jpg"}, record.Names())
}

func TestIngestAppendUnknownRecord(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.pipeline.IngestAppend(context.Background(), 42, []Upload{
		{OriginalName: "x.png", Content: []byte("x")},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.blobs.blobs)
}

func TestIngestSync(t *testing.T) {
	f := newPipelineFixture()

	record, err := f.pipeline.IngestSync(context.Background(), Upload{
		OriginalName: "one.png", Content: []byte("1"),
	}, nil, "")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"one.jpg"}, record.Names())
	assert.Equal(t, []string{"add:one.jpg"}, f.index.callList())
}

func TestIngestSyncSurfacesIndexFailure(t *testing.T) {
	f := newPipelineFixture()
	f.index.addErr = errors.New("sidecar down")

	_, err := f.pipeline.IngestSync(context.Background(), Upload{
		OriginalName: "one.png", Content: []byte("1"),
	}, nil, "")
	assert.Error(t, err)
	assert.Equal(t, 0, f.records.count())
}

func TestDeleteFilenameIndexFirst(t *testing.T) {
	f := newPipelineFixture()
	sync := NewSynchronizer(f.index, f.records, f.blobs, f.metrics, logger.NewNop())

	_, err := f.records.CreateRecord(context.Background(), []string{"a.jpg", "b.jpg"}, "products", nil)
	require.NoError(t, err)
	require.NoError(t, f.blobs.Put(context.Background(), "a.jpg", bytes.NewReader([]byte("a")), 1))

	record, err := sync.DeleteFilename(context.Background(), "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, []string{"b.jpg"}, record.Names())

	assert.Equal(t, []string{"delete:a.jpg"}, f.index.callList())
	assert.Contains(t, f.blobs.deleted, "a.jpg")

	sibling, err := f.records.FindByFilename(context.Background(), "b.jpg")
	require.NoError(t, err)
	assert.NotNil(t, sibling)
}

func TestDeleteFilenameIndexFailureKeepsMetadata(t *testing.T) {
	f := newPipelineFixture()
	sync := NewSynchronizer(f.index, f.records, f.blobs, f.metrics, logger.NewNop())
	f.index.deleteErr = errors.New("sidecar down")

	_, err := f.records.CreateRecord(context.Background(), []string{"a.jpg"}, "products", nil)
	require.NoError(t, err)

	_, err = sync.DeleteFilename(context.Background(), "a.jpg")
	assert.Error(t, err)

	record, err := f.records.FindByFilename(context.Background(), "a.jpg")
	require.NoError(t, err)
	assert.NotNil(t, record, "metadata must be untouched when the index delete fails")
	assert.Equal(t, 0, f.metrics.divergences)
}

func TestDeleteFilenameDivergenceIsCounted(t *testing.T) {
	f := newPipelineFixture()
	sync := NewSynchronizer(f.index, f.records, f.blobs, f.metrics, logger.NewNop())
	f.records.removeErr = errors.New("store unavailable")

	_, err := sync.DeleteFilename(context.Background(), "a.jpg")
	assert.Error(t, err)

	// Index delete already succeeded, so the stores have diverged.
	assert.Equal(t, []string{"delete:a.jpg"}, f.index.callList())
	assert.Equal(t, 1, f.metrics.divergences)
}

func TestDeleteFilenameMissingRecord(t *testing.T) {
	f := newPipelineFixture()
	sync := NewSynchronizer(f.index, f.records, f.blobs, f.metrics, logger.NewNop())

	record, err := sync.DeleteFilename(context.Background(), "ghost.jpg")
	require.NoError(t, err)
	assert.Nil(t, record)
}
