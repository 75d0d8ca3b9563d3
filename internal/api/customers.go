package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// customerRequest is the JSON body for customer create and update.
type customerRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCustomer(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	customer, err := s.customers.Create(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":  true,
		"customer": customer,
	})
}

func (s *Server) handleListCustomers(c echo.Context) error {
	customers, err := s.customers.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"customers": customers,
		"total":     len(customers),
	})
}

func (s *Server) handleGetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	customer, err := s.customers.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": customer,
	})
}

// handleUpdateCustomer renames a customer. The code is immutable and cannot
// be changed here or anywhere else.
func (s *Server) handleUpdateCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	customer, err := s.customers.UpdateName(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": customer,
	})
}

func (s *Server) handleDeleteCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := s.customers.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "customer deleted",
	})
}
