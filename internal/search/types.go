package search

import "time"

// Result is one display-ready search hit. One Result is produced per index
// match, in the index's relevance order.
type Result struct {
	// ID is a per-response identifier for the hit, not a database key.
	ID string `json:"id"`

	// Filename is the stored filename the index matched.
	Filename string `json:"filename"`

	// URL is the public path the blob is served under.
	URL string `json:"url"`

	// Folder is the owning record's folder, or "general" when no record
	// references the filename.
	Folder string `json:"folder"`

	// Customer is the display label "{name} ({code})", or "N/A" when the
	// filename has no owning record or the record has no customer.
	Customer string `json:"customer"`

	// Similarity is a synthetic relevance score that strictly decreases
	// with rank. It is an ordering hint, not a measured distance.
	Similarity float64 `json:"similarity"`

	// CreatedAt is the owning record's creation time, or the enrichment
	// time when no record exists.
	CreatedAt time.Time `json:"createdAt"`
}
