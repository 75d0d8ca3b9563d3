package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleIndexReload asks the indexing service to reload its index from disk.
func (s *Server) handleIndexReload(c echo.Context) error {
	if err := s.index.Reload(c.Request().Context()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "index reloaded",
	})
}

// handleIndexReset asks the indexing service to drop its index entirely.
func (s *Server) handleIndexReset(c echo.Context) error {
	if err := s.index.Reset(c.Request().Context()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "index reset",
	})
}
