package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pixvault/pixvault/internal/search"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// searchResponse carries the enriched matches in relevance order.
type searchResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Results []search.Result `json:"results"`
	Total   int             `json:"total"`
}

// handleSearch sends the query image to the indexing service and enriches
// the ordered matches with local metadata.
func (s *Server) handleSearch(c echo.Context) error {
	files, err := readUploads(c, "image")
	if err != nil {
		s.metrics.SearchRequest("failed")
		return writeError(c, err)
	}
	query := files[0]

	matches, err := s.index.Search(c.Request().Context(), vectorindex.File{
		Name:    query.OriginalName,
		Content: query.Content,
	})
	if err != nil {
		s.metrics.SearchRequest("failed")
		return writeError(c, err)
	}

	results, err := s.enricher.Enrich(c.Request().Context(), matches)
	if err != nil {
		s.metrics.SearchRequest("failed")
		return writeError(c, err)
	}

	s.metrics.SearchRequest("ok")
	return c.JSON(http.StatusOK, searchResponse{
		Success: true,
		Message: "search completed",
		Results: results,
		Total:   len(results),
	})
}
