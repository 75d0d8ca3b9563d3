package store

import (
	"context"
	"fmt"

	"github.com/pixvault/pixvault/internal/postgres"
)

// SequenceGenerator mints monotonically increasing values for named counters.
// Counter rows are created lazily on first increment.
type SequenceGenerator struct {
	db *postgres.Postgres
}

// NewSequenceGenerator returns a generator backed by the given database.
func NewSequenceGenerator(db *postgres.Postgres) *SequenceGenerator {
	return &SequenceGenerator{db: db}
}

// Next atomically increments (creating it if absent) the counter row for name
// and returns the new value. The increment-and-fetch is a single SQL
// statement, so two concurrent callers never observe the same value and no
// value is skipped.
func (g *SequenceGenerator) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := g.db.Raw(ctx, &seq,
		`INSERT INTO sequence_counters (name, seq, created_at, updated_at)
		 VALUES (?, 1, NOW(), NOW())
		 ON CONFLICT (name)
		 DO UPDATE SET seq = sequence_counters.seq + 1, updated_at = NOW()
		 RETURNING seq`,
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: next %q: %v", ErrStoreUnavailable, name, err)
	}
	return seq, nil
}
