// Package ingest orchestrates the photo upload path and its mirror, the
// deletion path.
//
// An upload request is handled in three phases. The persist phase writes
// every file to the blob store under its normalized name and is fully
// synchronous. The acknowledge phase returns the accepted blob paths to the
// caller as soon as persistence finishes. The index and metadata phase runs
// afterwards on a bounded worker pool: all files of one request go to the
// external indexing service in a single batched call, and only on success is
// one image record written. A failure in the last phase never reaches the
// original caller; the persisted blobs stay behind without a record and the
// failure is logged, counted and optionally handed to a dead-letter
// exchange. This window is a deliberate trade of consistency for upload
// latency.
//
// Deletion runs in the opposite order: the index entry is removed first so a
// failed upstream call leaves both stores consistent, then the metadata row,
// then the blob.
package ingest
