package ingest

import (
	"context"
	"io"
	"time"

	traceapi "go.opentelemetry.io/otel/trace"

	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// Logger defines the interface for logging operations within this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// ImageRecords is the slice of the metadata store the pipeline depends on.
// Implemented by *store.ImageStore.
type ImageRecords interface {
	CreateRecord(ctx context.Context, names []string, folder string, customerID *uint) (*store.Image, error)
	AppendFilenames(ctx context.Context, imageID uint, names []string) (*store.Image, error)
	Get(ctx context.Context, id uint) (*store.Image, error)
	FindByFilename(ctx context.Context, filename string) (*store.Image, error)
	RemoveFilename(ctx context.Context, filename string) (*store.Image, error)
}

// BlobStore is the slice of the blob store the pipeline depends on.
// Implemented by blob.Store.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// Indexer is the slice of the external indexing service client the pipeline
// and the deletion synchronizer depend on. Implemented by *vectorindex.Client.
type Indexer interface {
	Add(ctx context.Context, file vectorindex.File) error
	AddBatch(ctx context.Context, files []vectorindex.File) error
	Delete(ctx context.Context, filename string) error
}

// Metrics receives pipeline instrumentation. Implemented by *metrics.Metrics.
type Metrics interface {
	IngestRequest(mode, status string)
	IngestFiles(n int)
	IndexTask(status string)
	IndexRequest(op string, d time.Duration)
	DeleteDivergence()
}

// Tracer creates spans around the pipeline's external calls. Implemented by
// *tracer.Tracer.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, traceapi.Span)
	RecordErrorOnSpan(span traceapi.Span, err error)
}

// DeadLetter receives a serialized description of a failed background
// indexing task so an out-of-band process can retry it. A nil DeadLetter
// disables the hand-off; failures are then only logged and counted.
type DeadLetter interface {
	Publish(ctx context.Context, msg []byte) error
}
