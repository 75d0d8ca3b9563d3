package ingest

import (
	"context"

	"github.com/pixvault/pixvault/internal/store"
)

// Synchronizer coordinates filename deletion across the external index, the
// metadata store and the blob store.
//
// The index entry is removed first. If that call fails the metadata is left
// untouched and both stores stay consistent. If the index delete succeeds but
// the metadata update fails the two stores diverge; the divergence is counted
// and logged for out-of-band reconciliation.
type Synchronizer struct {
	index   Indexer
	records ImageRecords
	blobs   BlobStore
	metrics Metrics
	logger  Logger
}

// NewSynchronizer constructs a Synchronizer.
func NewSynchronizer(index Indexer, records ImageRecords, blobs BlobStore, metrics Metrics, logger Logger) *Synchronizer {
	return &Synchronizer{
		index:   index,
		records: records,
		blobs:   blobs,
		metrics: metrics,
		logger:  logger,
	}
}

// DeleteFilename removes one stored filename everywhere. It returns the
// record snapshot the metadata store produced: the deleted record when the
// filename was its last name, the updated record otherwise, or nil when no
// record referenced the filename.
func (s *Synchronizer) DeleteFilename(ctx context.Context, filename string) (*store.Image, error) {
	if err := s.index.Delete(ctx, filename); err != nil {
		s.logger.Error("index delete failed, metadata left untouched", err, map[string]interface{}{
			"filename": filename,
		})
		return nil, err
	}

	img, err := s.records.RemoveFilename(ctx, filename)
	if err != nil {
		s.metrics.DeleteDivergence()
		s.logger.Error("metadata removal failed after index delete, stores diverged", err, map[string]interface{}{
			"filename": filename,
		})
		return nil, err
	}

	if err := s.blobs.Delete(ctx, filename); err != nil {
		s.logger.Warn("blob delete failed, orphaned blob left behind", err, map[string]interface{}{
			"filename": filename,
		})
	}

	return img, nil
}
