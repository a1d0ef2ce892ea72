package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/middleware"
)

// DefaultKeepAlive is how often an idle event stream sends a ping
const DefaultKeepAlive = 30 * time.Second

// RevisionEvent tells a client its watchlist changed and should be refetched
type RevisionEvent struct {
	Revision uint64 `json:"revision"`
}

// EventHandler streams committed revisions to clients over server-sent events
type EventHandler struct {
	service   *library.Service
	keepAlive time.Duration
}

// NewEventHandler creates a new event handler instance
func NewEventHandler(service *library.Service, keepAlive time.Duration) *EventHandler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &EventHandler{service: service, keepAlive: keepAlive}
}

// Stream handles GET /api/events. The first event carries the current
// revision; later ones follow each commit. A slow client only sees the latest.
func (h *EventHandler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	revisions, cancel := h.service.Watch(userID)
	defer cancel()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	// the stream outlives the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	logger.Log.Debug().Str("user_id", userID).Msg("Event stream opened")

	c.SSEvent("revision", RevisionEvent{Revision: h.service.Revision(userID)})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case rev, ok := <-revisions:
			if !ok {
				return false
			}
			c.SSEvent("revision", RevisionEvent{Revision: rev.Revision})
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC().Format(time.RFC3339)})
			return true
		}
	})

	logger.Log.Debug().Str("user_id", userID).Msg("Event stream closed")
}

// SetupEventRoutes registers the event stream route
func SetupEventRoutes(apiGroup *gin.RouterGroup, service *library.Service, keepAlive time.Duration) {
	handler := NewEventHandler(service, keepAlive)
	apiGroup.GET("/events", handler.Stream)
}
