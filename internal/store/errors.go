package store

import (
	"errors"
	"fmt"

	"github.com/pixvault/pixvault/internal/postgres"
)

var (
	// ErrValidation signals missing or invalid required input (empty name,
	// empty filename list). The request is rejected with no partial writes.
	ErrValidation = errors.New("validation error")

	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable signals that the metadata or counter store could
	// not be reached. The operation is aborted with no compensating action.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// translate maps database errors onto the package's domain sentinels.
// Not-found stays a caller-visible miss; anything else means the store
// did not complete the operation.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch translated := postgres.TranslateError(err); {
	case errors.Is(translated, postgres.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(translated, postgres.ErrDuplicateKey):
		return fmt.Errorf("%w: %v", ErrValidation, translated)
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
