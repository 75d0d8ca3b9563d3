package search

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/pixvault/pixvault/internal/store"
)

const (
	// DefaultCustomerLabel is used when a match has no owning record or
	// the record has no customer.
	DefaultCustomerLabel = "N/A"

	// Scoring constants for the synthetic similarity: the best match gets
	// scoreBase, every following rank loses scoreStep, and scores never
	// drop below scoreFloor.
	scoreBase  = 100.0
	scoreStep  = 5.0
	scoreFloor = 5.0
)

// Logger defines the interface for logging operations within this package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// ImageRecords is the metadata lookup the enricher depends on. Implemented
// by *store.ImageStore; the returned record carries its customer preloaded.
type ImageRecords interface {
	FindByFilename(ctx context.Context, filename string) (*store.Image, error)
}

// BlobURLs resolves a stored filename to its public path. Implemented by
// blob.Store.
type BlobURLs interface {
	URL(name string) string
}

// Enricher turns the external index's ordered match paths into display-ready
// results by attaching local metadata. Matches without metadata degrade to
// defaults instead of failing the search; the input order is preserved
// because it is the only relevance signal available.
type Enricher struct {
	records ImageRecords
	blobs   BlobURLs
	logger  Logger
}

// NewEnricher constructs an Enricher.
func NewEnricher(records ImageRecords, blobs BlobURLs, logger Logger) *Enricher {
	return &Enricher{
		records: records,
		blobs:   blobs,
		logger:  logger,
	}
}

// Enrich produces one Result per match path, in the same order. An empty
// match list yields an empty, successful result.
func (e *Enricher) Enrich(ctx context.Context, matches []string) ([]Result, error) {
	results := make([]Result, 0, len(matches))

	for rank, match := range matches {
		filename := path.Base(match)

		result := Result{
			ID:         uuid.NewString(),
			Filename:   filename,
			URL:        e.blobs.URL(filename),
			Folder:     store.DefaultFolder,
			Customer:   DefaultCustomerLabel,
			Similarity: scoreForRank(rank),
			CreatedAt:  time.Now().UTC(),
		}

		record, err := e.records.FindByFilename(ctx, filename)
		if err != nil {
			e.logger.Warn("metadata lookup failed during enrichment, using defaults", err, map[string]interface{}{
				"filename": filename,
			})
		}
		if record != nil {
			result.Folder = record.Folder
			result.CreatedAt = record.CreatedAt
			if record.Customer != nil {
				result.Customer = fmt.Sprintf("%s (%s)", record.Customer.Name, record.Customer.Code)
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// scoreForRank assigns the synthetic descending relevance score.
func scoreForRank(rank int) float64 {
	score := scoreBase - scoreStep*float64(rank)
	if score < scoreFloor {
		return scoreFloor
	}
	return score
}
