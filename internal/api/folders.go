package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/middleware"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// FolderNameRequest represents a folder create or rename
type FolderNameRequest struct {
	Name string `json:"name"`
}

// Validate checks the request shape; trimming and uniqueness are checked by
// the library
func (r *FolderNameRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.RuneLength(1, watchlist.MaxFolderNameLength)),
	)
}

// FolderResponse represents a folder in API responses
type FolderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	ItemCount *int      `json:"item_count,omitempty"`
}

// FolderListResponse represents a list of folders
type FolderListResponse struct {
	Folders []*FolderResponse `json:"folders"`
}

// toFolderResponse converts a folder model to API response format
func toFolderResponse(folder *models.Folder) *FolderResponse {
	return &FolderResponse{
		ID:        folder.ID.String(),
		Name:      folder.Name,
		Order:     folder.Order,
		CreatedAt: folder.CreatedAt,
	}
}

// FolderHandler handles folder-related API requests
type FolderHandler struct {
	handler
}

// NewFolderHandler creates a new folder handler instance
func NewFolderHandler(service *library.Service, timeout time.Duration) *FolderHandler {
	return &FolderHandler{handler: newHandler(service, timeout)}
}

// ListFolders handles GET /api/folders
func (h *FolderHandler) ListFolders(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	summaries, err := h.service.ListFolders(ctx, middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err, "list folders")
		return
	}

	folders := make([]*FolderResponse, 0, len(summaries))
	for _, s := range summaries {
		resp := toFolderResponse(s.Folder)
		count := s.ItemCount
		resp.ItemCount = &count
		folders = append(folders, resp)
	}

	c.JSON(http.StatusOK, FolderListResponse{Folders: folders})
}

// CreateFolder handles POST /api/folders
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req FolderNameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	folder, err := h.service.CreateFolder(ctx, middleware.UserID(c), req.Name)
	if err != nil {
		writeServiceError(c, err, "create folder")
		return
	}

	logger.Log.Info().
		Str("folder_id", folder.ID.String()).
		Str("name", folder.Name).
		Msg("Folder created successfully")

	c.JSON(http.StatusCreated, toFolderResponse(folder))
}

// RenameFolder handles PATCH /api/folders/:id
func (h *FolderHandler) RenameFolder(c *gin.Context) {
	id, ok := paramID(c, "id", "folder")
	if !ok {
		return
	}

	var req FolderNameRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.RenameFolder(ctx, middleware.UserID(c), id, req.Name)
	if err != nil {
		writeServiceError(c, err, "rename folder")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// DeleteFolder handles DELETE /api/folders/:id. Items inside become standalone.
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	id, ok := paramID(c, "id", "folder")
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.DeleteFolder(ctx, middleware.UserID(c), id)
	if err != nil {
		writeServiceError(c, err, "delete folder")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// BulkDeleteFolders handles POST /api/folders/bulk-delete
func (h *FolderHandler) BulkDeleteFolders(c *gin.Context) {
	var req IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, _ := parseIDs(req.IDs)

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.DeleteFolders(ctx, middleware.UserID(c), ids)
	if err != nil {
		writeServiceError(c, err, "delete folders")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// MoveTargets handles GET /api/folders/targets?watched=&type=&q=
// It lists the folders an item of that kind may be moved into.
func (h *FolderHandler) MoveTargets(c *gin.Context) {
	watched, err := strconv.ParseBool(c.DefaultQuery("watched", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_query",
			Message: "watched must be true or false",
		})
		return
	}

	mediaType := models.MediaType(c.Query("type"))
	if !watched && !mediaType.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_query",
			Message: "type must be movie or series for unwatched items",
		})
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	folders, err := h.service.MoveTargets(ctx, middleware.UserID(c), watched, mediaType, c.Query("q"))
	if err != nil {
		writeServiceError(c, err, "list move targets")
		return
	}

	out := make([]*FolderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, toFolderResponse(f))
	}

	c.JSON(http.StatusOK, FolderListResponse{Folders: out})
}

// SetupFolderRoutes registers folder routes
func SetupFolderRoutes(apiGroup *gin.RouterGroup, service *library.Service, timeout time.Duration) {
	handler := NewFolderHandler(service, timeout)

	apiGroup.GET("/folders", handler.ListFolders)
	apiGroup.POST("/folders", handler.CreateFolder)
	apiGroup.GET("/folders/targets", handler.MoveTargets)
	apiGroup.POST("/folders/bulk-delete", handler.BulkDeleteFolders)
	apiGroup.PATCH("/folders/:id", handler.RenameFolder)
	apiGroup.DELETE("/folders/:id", handler.DeleteFolder)
}
