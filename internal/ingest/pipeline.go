package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// Upload is one file handed to the pipeline: the client-provided original
// name and the binary content. StoredName is filled in by normalization.
type Upload struct {
	OriginalName string
	StoredName   string
	Content      []byte
}

// Receipt is the synchronous acknowledgment returned to the caller after the
// persist phase. Paths lists the accepted blob paths; it is not a
// confirmation of search-readiness, indexing happens afterwards in the
// background.
type Receipt struct {
	Paths []string `json:"paths"`
}

// failedTask is the dead-letter payload describing a background indexing
// task that failed, so an out-of-band process can retry it.
type failedTask struct {
	Op         string    `json:"op"`
	Names      []string  `json:"names"`
	Folder     string    `json:"folder,omitempty"`
	CustomerID *uint     `json:"customer_id,omitempty"`
	ImageID    uint      `json:"image_id,omitempty"`
	Error      string    `json:"error"`
	FailedAt   time.Time `json:"failed_at"`
}

// Pipeline orchestrates blob persistence, batched calls to the external
// indexing service and metadata writes.
//
// The batch and append paths persist blobs synchronously, acknowledge the
// caller, then index and write metadata in a background task. A background
// failure leaves the persisted blobs without a metadata record and is
// observable only through logs, metrics and the optional dead-letter
// publisher. The single-file path runs all three phases synchronously.
type Pipeline struct {
	blobs      BlobStore
	records    ImageRecords
	index      Indexer
	pool       *Pool
	deadLetter DeadLetter
	metrics    Metrics
	tracer     Tracer
	logger     Logger
}

// NewPipeline constructs a Pipeline. deadLetter may be nil.
func NewPipeline(blobs BlobStore, records ImageRecords, index Indexer, pool *Pool, deadLetter DeadLetter, metrics Metrics, tracer Tracer, logger Logger) *Pipeline {
	return &Pipeline{
		blobs:      blobs,
		records:    records,
		index:      index,
		pool:       pool,
		deadLetter: deadLetter,
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger,
	}
}

// Ingest accepts a batch of uploads for one customer and folder. It persists
// every blob, acknowledges the caller with the accepted paths, and schedules
// one background task that indexes the whole batch and creates a single
// image record holding all names in submission order.
func (p *Pipeline) Ingest(ctx context.Context, files []Upload, customerID *uint, folder string) (*Receipt, error) {
	if folder == "" {
		folder = store.DefaultFolder
	}

	batch, receipt, err := p.persist(ctx, "batch", files)
	if err != nil {
		return nil, err
	}

	names := storedNames(batch)
	p.pool.Submit("index-batch", func(ctx context.Context) error {
		if err := p.indexBatch(ctx, batch); err != nil {
			p.reportIndexFailure(ctx, failedTask{
				Op: "create", Names: names, Folder: folder, CustomerID: customerID,
				Error: err.Error(), FailedAt: time.Now().UTC(),
			}, err)
			return nil
		}

		if _, err := p.records.CreateRecord(ctx, names, folder, customerID); err != nil {
			p.reportIndexFailure(ctx, failedTask{
				Op: "create", Names: names, Folder: folder, CustomerID: customerID,
				Error: err.Error(), FailedAt: time.Now().UTC(),
			}, err)
			return nil
		}

		p.metrics.IndexTask("ok")
		p.logger.Info("batch indexed and recorded", nil, map[string]interface{}{
			"files":  len(names),
			"folder": folder,
		})
		return nil
	})

	p.metrics.IngestRequest("batch", "ok")
	return receipt, nil
}

// IngestAppend persists uploads and schedules a background task that indexes
// them and appends their names to an existing image record.
func (p *Pipeline) IngestAppend(ctx context.Context, imageID uint, files []Upload) (*Receipt, error) {
	// Reject unknown record ids up front; the background task could only
	// report NotFound after the caller was already acknowledged.
	if _, err := p.records.Get(ctx, imageID); err != nil {
		p.metrics.IngestRequest("append", "failed")
		return nil, err
	}

	batch, receipt, err := p.persist(ctx, "append", files)
	if err != nil {
		return nil, err
	}

	names := storedNames(batch)
	p.pool.Submit("index-append", func(ctx context.Context) error {
		if err := p.indexBatch(ctx, batch); err != nil {
			p.reportIndexFailure(ctx, failedTask{
				Op: "append", Names: names, ImageID: imageID,
				Error: err.Error(), FailedAt: time.Now().UTC(),
			}, err)
			return nil
		}

		if _, err := p.records.AppendFilenames(ctx, imageID, names); err != nil {
			p.reportIndexFailure(ctx, failedTask{
				Op: "append", Names: names, ImageID: imageID,
				Error: err.Error(), FailedAt: time.Now().UTC(),
			}, err)
			return nil
		}

		p.metrics.IndexTask("ok")
		return nil
	})

	p.metrics.IngestRequest("append", "ok")
	return receipt, nil
}

// IngestSync is the legacy single-file path. It persists the blob, indexes it
// and creates the metadata record before returning, so the caller observes
// indexing failures directly at the cost of latency.
func (p *Pipeline) IngestSync(ctx context.Context, file Upload, customerID *uint, folder string) (*store.Image, error) {
	if folder == "" {
		folder = store.DefaultFolder
	}

	batch, _, err := p.persist(ctx, "sync", []Upload{file})
	if err != nil {
		return nil, err
	}
	stored := batch[0]

	addCtx, span := p.tracer.StartSpan(ctx, "index-add")
	start := time.Now()
	err = p.index.Add(addCtx, vectorindex.File{Name: stored.StoredName, Content: stored.Content})
	p.metrics.IndexRequest("add", time.Since(start))
	if err != nil {
		p.tracer.RecordErrorOnSpan(span, err)
		span.End()
		p.metrics.IngestRequest("sync", "failed")
		return nil, err
	}
	span.End()

	record, err := p.records.CreateRecord(ctx, []string{stored.StoredName}, folder, customerID)
	if err != nil {
		p.metrics.IngestRequest("sync", "failed")
		return nil, err
	}

	p.metrics.IngestRequest("sync", "ok")
	return record, nil
}

// persist is the synchronous phase shared by all ingest paths: validate,
// normalize and write every blob. A blob write failure aborts the whole
// request before any external call is made.
func (p *Pipeline) persist(ctx context.Context, mode string, files []Upload) ([]Upload, *Receipt, error) {
	if len(files) == 0 {
		p.metrics.IngestRequest(mode, "failed")
		return nil, nil, fmt.Errorf("%w: no files in request", store.ErrValidation)
	}

	batch := normalizeBatch(files, p.logger)

	for _, f := range batch {
		if err := p.blobs.Put(ctx, f.StoredName, bytes.NewReader(f.Content), int64(len(f.Content))); err != nil {
			p.metrics.IngestRequest(mode, "failed")
			p.logger.Error("blob write failed, aborting ingest", err, map[string]interface{}{
				"filename": f.StoredName,
				"mode":     mode,
			})
			return nil, nil, fmt.Errorf("%w: persisting %s: %v", ErrIngestionFailed, f.StoredName, err)
		}
	}

	p.metrics.IngestFiles(len(batch))

	paths := make([]string, len(batch))
	for i, f := range batch {
		paths[i] = p.blobs.URL(f.StoredName)
	}

	return batch, &Receipt{Paths: paths}, nil
}

// indexBatch sends one batched call to the external indexing service.
func (p *Pipeline) indexBatch(ctx context.Context, batch []Upload) error {
	ctx, span := p.tracer.StartSpan(ctx, "index-batch")
	defer span.End()

	files := make([]vectorindex.File, len(batch))
	for i, f := range batch {
		files[i] = vectorindex.File{Name: f.StoredName, Content: f.Content}
	}

	start := time.Now()
	err := p.index.AddBatch(ctx, files)
	p.metrics.IndexRequest("add-batch", time.Since(start))
	if err != nil {
		p.tracer.RecordErrorOnSpan(span, err)
	}
	return err
}

// reportIndexFailure records a failed background task. The original caller
// has already been acknowledged, so the failure surfaces only through logs,
// the task counter and the optional dead-letter publisher.
func (p *Pipeline) reportIndexFailure(ctx context.Context, task failedTask, cause error) {
	p.metrics.IndexTask("failed")
	p.logger.Error("background indexing task failed, blobs remain without a record", cause, map[string]interface{}{
		"op":    task.Op,
		"files": len(task.Names),
	})

	if p.deadLetter == nil {
		return
	}

	payload, err := json.Marshal(task)
	if err != nil {
		p.logger.Error("failed to serialize dead-letter payload", err, nil)
		return
	}
	if err := p.deadLetter.Publish(ctx, payload); err != nil {
		p.logger.Error("failed to publish failed task to dead-letter exchange", err, nil)
	}
}

func storedNames(batch []Upload) []string {
	names := make([]string, len(batch))
	for i, f := range batch {
		names[i] = f.StoredName
	}
	return names
}
