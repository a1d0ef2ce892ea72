// Package api implements the HTTP handlers of the watchlist API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/middleware"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// DefaultRequestTimeout bounds a handler's service call when none is configured
const DefaultRequestTimeout = 5 * time.Second

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResultResponse reports what a write committed
type ResultResponse struct {
	Applied  int    `json:"applied"`
	Revision uint64 `json:"revision"`
}

func toResultResponse(r library.Result) ResultResponse {
	return ResultResponse{Applied: r.Applied, Revision: r.Revision}
}

// handler carries what every watchlist handler needs
type handler struct {
	service *library.Service
	timeout time.Duration
}

func newHandler(service *library.Service, timeout time.Duration) handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return handler{service: service, timeout: timeout}
}

// context returns the request context bounded by the handler timeout
func (h handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// bindJSON decodes the body into req and runs its Validate method. It writes
// a 400 response and returns false on failure.
func bindJSON(c *gin.Context, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return false
	}
	return true
}

// paramID parses the named path parameter as a UUID. It writes a 400 response
// and returns false on failure.
func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + what + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseIDs converts request ids, failing on the first malformed one
func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseOptionalID converts a nullable folder id; nil or "" means standalone
func parseOptionalID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// writeServiceError maps a library error onto an HTTP response
func writeServiceError(c *gin.Context, err error, action string) {
	switch {
	case library.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "duplicate_name",
			Message: "A folder with this name already exists",
		})
	case library.IsNotFound(err):
		message := "Item not found"
		if errors.Is(err, watchlist.ErrFolderNotFound) {
			message = "Folder not found"
		}
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: message,
		})
	case library.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{
			Error:   "timeout",
			Message: "Timed out while trying to " + action,
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("user_id", middleware.UserID(c)).
			Msg("Failed to " + action)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "request_failed",
			Message: "Failed to " + action,
		})
	}
}
