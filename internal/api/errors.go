package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixvault/pixvault/internal/ingest"
	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError maps domain errors to HTTP status codes: validation failures to
// 400, missing entities to 404, indexing-service failures to 502, everything
// else to 500.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vectorindex.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, ingest.ErrIngestionFailed),
		errors.Is(err, store.ErrStoreUnavailable):
		status = http.StatusInternalServerError
	}

	return c.JSON(status, errorResponse{Success: false, Message: err.Error()})
}
