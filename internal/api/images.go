package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pixvault/pixvault/internal/ingest"
	"github.com/pixvault/pixvault/internal/store"
)

// uploadResponse acknowledges an asynchronous upload. Paths lists the
// accepted blob paths; indexing completes in the background.
type uploadResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Paths   []string `json:"paths"`
}

// handleUpload accepts a multipart batch under the "images" field, an
// optional "customer" id and an optional "folder", and acknowledges as soon
// as every blob is persisted.
func (s *Server) handleUpload(c echo.Context) error {
	files, err := readUploads(c, "images")
	if err != nil {
		return writeError(c, err)
	}

	customerID, err := optionalUintForm(c, "customer")
	if err != nil {
		return writeError(c, err)
	}

	receipt, err := s.pipeline.Ingest(c.Request().Context(), files, customerID, c.FormValue("folder"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("%d file(s) accepted, indexing in progress", len(receipt.Paths)),
		Paths:   receipt.Paths,
	})
}

// handleUploadSync is the legacy single-file path: the response is sent only
// after the file is persisted, indexed and recorded.
func (s *Server) handleUploadSync(c echo.Context) error {
	files, err := readUploads(c, "image")
	if err != nil {
		return writeError(c, err)
	}

	customerID, err := optionalUintForm(c, "customer")
	if err != nil {
		return writeError(c, err)
	}

	record, err := s.pipeline.IngestSync(c.Request().Context(), files[0], customerID, c.FormValue("folder"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"image":   record,
	})
}

// handleAppend adds files to an existing image record.
func (s *Server) handleAppend(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	files, err := readUploads(c, "images")
	if err != nil {
		return writeError(c, err)
	}

	receipt, err := s.pipeline.IngestAppend(c.Request().Context(), id, files)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Message: fmt.Sprintf("%d file(s) accepted, indexing in progress", len(receipt.Paths)),
		Paths:   receipt.Paths,
	})
}

func (s *Server) handleListImages(c echo.Context) error {
	customerID, err := optionalUintQuery(c, "customer")
	if err != nil {
		return writeError(c, err)
	}

	images, err := s.images.List(c.Request().Context(), customerID, c.QueryParam("folder"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"images":  images,
		"total":   len(images),
	})
}

func (s *Server) handleGetImage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	image, err := s.images.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"image":   image,
	})
}

// handleDeleteFilename removes one stored filename from the index, the
// metadata store and the blob store, in that order.
func (s *Server) handleDeleteFilename(c echo.Context) error {
	filename := c.Param("filename")
	if filename == "" {
		return writeError(c, fmt.Errorf("%w: filename is required", store.ErrValidation))
	}

	record, err := s.synchronizer.DeleteFilename(c.Request().Context(), filename)
	if err != nil {
		return writeError(c, err)
	}

	if record == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "no record referenced the filename",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "filename deleted",
		"image":   record,
	})
}

// readUploads collects the multipart files under field into pipeline uploads.
func readUploads(c echo.Context, field string) ([]ingest.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: expected multipart form: %v", store.ErrValidation, err)
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no files under field %q", store.ErrValidation, field)
	}

	uploads := make([]ingest.Upload, 0, len(headers))
	for _, h := range headers {
		content, err := readFileHeader(h)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, ingest.Upload{OriginalName: h.Filename, Content: content})
	}

	return uploads, nil
}

func readFileHeader(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", store.ErrValidation, h.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", h.Filename, err)
	}
	return content, nil
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", store.ErrValidation, c.Param("id"))
	}
	return uint(id), nil
}

func optionalUintForm(c echo.Context, field string) (*uint, error) {
	return parseOptionalUint(c.FormValue(field), field)
}

func optionalUintQuery(c echo.Context, param string) (*uint, error) {
	return parseOptionalUint(c.QueryParam(param), param)
}

func parseOptionalUint(raw, name string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q", store.ErrValidation, name, raw)
	}
	u := uint(v)
	return &u, nil
}
