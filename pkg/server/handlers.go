package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
	"github.com/fyrsmithlabs/memoryd/internal/store"
)

// HistoryResponse is the JSON response for session history.
type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []history.Message `json:"messages"`
}

// handleGetHistory handles GET /v1/sessions/:id/history.
func (s *Server) handleGetHistory(c echo.Context) error {
	sess, ok := s.registry.Sessions().Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("session not found"))
	}
	messages := sess.Ledger().Snapshot()
	if messages == nil {
		messages = []history.Message{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{
		SessionID: sess.ID(),
		Messages:  messages,
	})
}

// handleClearHistory handles DELETE /v1/sessions/:id/history.
func (s *Server) handleClearHistory(c echo.Context) error {
	sess, ok := s.registry.Sessions().Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("session not found"))
	}
	sess.Ledger().Clear()
	return c.NoContent(http.StatusNoContent)
}

// handleListAttributes handles GET /v1/attributes.
func (s *Server) handleListAttributes(c echo.Context) error {
	masters, err := s.registry.Store().AttributeMasters(c.Request().Context())
	if err != nil {
		return storeError(c, err)
	}
	if masters == nil {
		masters = []attribute.Master{}
	}
	return c.JSON(http.StatusOK, masters)
}

// handleCreateAttribute handles POST /v1/attributes.
func (s *Server) handleCreateAttribute(c echo.Context) error {
	var m attribute.Master
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	id, err := s.registry.Store().InsertAttributeMaster(c.Request().Context(), m)
	if err != nil {
		return storeError(c, err)
	}
	m.ID = id
	return c.JSON(http.StatusCreated, m)
}

// handleGetAttribute handles GET /v1/attributes/:id.
func (s *Server) handleGetAttribute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid attribute id"))
	}
	m, err := s.registry.Store().AttributeMaster(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// handleUpdateAttribute handles PUT /v1/attributes/:id.
func (s *Server) handleUpdateAttribute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid attribute id"))
	}

	var m attribute.Master
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	m.ID = id
	if err := m.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}

	if err := s.registry.Store().UpdateAttributeMaster(c.Request().Context(), m); err != nil {
		return storeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// handleDeleteAttribute handles DELETE /v1/attributes/:id.
func (s *Server) handleDeleteAttribute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid attribute id"))
	}
	if err := s.registry.Store().DeleteAttributeMaster(c.Request().Context(), id); err != nil {
		return storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleListAttributeRecords handles GET /v1/attributes/:id/records.
func (s *Server) handleListAttributeRecords(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid attribute id"))
	}
	records, err := s.registry.Store().AttributeRecords(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err)
	}
	if records == nil {
		records = []attribute.Record{}
	}
	return c.JSON(http.StatusOK, records)
}

// handleListAllRecords handles GET /v1/records.
func (s *Server) handleListAllRecords(c echo.Context) error {
	records, err := s.registry.Store().AllAttributeRecords(c.Request().Context())
	if err != nil {
		return storeError(c, err)
	}
	if records == nil {
		records = []attribute.Record{}
	}
	return c.JSON(http.StatusOK, records)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// storeError maps repository errors to HTTP responses.
func storeError(c echo.Context, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
}
