package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/middleware"
)

// MaxBackupBytes caps the size of an uploaded backup file
const MaxBackupBytes = 10 << 20

// BackupHandler handles export and import of the watched list
type BackupHandler struct {
	handler
	now func() time.Time
}

// NewBackupHandler creates a new backup handler instance
func NewBackupHandler(service *library.Service, timeout time.Duration) *BackupHandler {
	return &BackupHandler{handler: newHandler(service, timeout), now: time.Now}
}

// Export handles GET /api/backup/watched. The body is a JSON array served as a
// dated attachment.
func (h *BackupHandler) Export(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	items, err := h.service.ExportWatched(ctx, middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err, "export watched list")
		return
	}

	filename := fmt.Sprintf("watched-backup-%s.json", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, items)
}

// Import handles POST /api/backup/watched with a backup file as the body
func (h *BackupHandler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBackupBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read backup file",
		})
		return
	}
	if len(data) > MaxBackupBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "too_large",
			Message: "Backup file is too large",
		})
		return
	}

	entries, err := library.ParseBackup(data)
	if err != nil {
		writeServiceError(c, err, "import watched list")
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.ImportWatched(ctx, middleware.UserID(c), entries)
	if err != nil {
		writeServiceError(c, err, "import watched list")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SetupBackupRoutes registers backup routes
func SetupBackupRoutes(apiGroup *gin.RouterGroup, service *library.Service, timeout time.Duration) {
	handler := NewBackupHandler(service, timeout)

	apiGroup.GET("/backup/watched", handler.Export)
	apiGroup.POST("/backup/watched", handler.Import)
}
