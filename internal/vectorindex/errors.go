package vectorindex

import "errors"

// ErrUpstream signals that the indexing service was unreachable, timed out,
// or answered with a non-2xx status. Synchronous callers surface it;
// the asynchronous ingestion phase only logs and counts it.
var ErrUpstream = errors.New("indexing service failure")
