package ingest

import "errors"

// ErrIngestionFailed marks a blob persistence failure during the synchronous
// persist phase. The whole request is aborted before any external call is
// made and no metadata is written.
var ErrIngestionFailed = errors.New("ingestion failed")
