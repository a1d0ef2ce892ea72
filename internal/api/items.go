package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/logger"
	"github.com/stwalsh4118/trackflix/internal/middleware"
	"github.com/stwalsh4118/trackflix/internal/models"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// Request/Response DTOs

// CreateItemRequest represents a request to add an item
type CreateItemRequest struct {
	Title   string        `json:"title"`
	Type    string        `json:"type"`
	Watched bool          `json:"watched"`
	IsD21   bool          `json:"is_d21"`
	Notes   *string       `json:"notes,omitempty"`
	Rating  models.Rating `json:"rating"`
	Season  *int          `json:"season,omitempty"`
	Episode *int          `json:"episode,omitempty"`
}

// Validate checks the request shape
func (r *CreateItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Type, validation.Required, validation.In(string(models.MediaTypeMovie), string(models.MediaTypeSeries))),
	)
}

// QuickAddRequest represents a batch of titles to add as watched
type QuickAddRequest struct {
	Items    []QuickAddEntry `json:"items"`
	FolderID *string         `json:"folder_id"`
}

// QuickAddEntry is one title of a quick add
type QuickAddEntry struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Validate checks the request shape
func (r *QuickAddRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, 500), validation.Each(validation.By(validateQuickAddEntry))),
		validation.Field(&r.FolderID, validation.By(validateUUID)),
	)
}

func validateQuickAddEntry(value interface{}) error {
	entry, _ := value.(QuickAddEntry)
	return validation.Validate(entry.Type, validation.Required, validation.In(string(models.MediaTypeMovie), string(models.MediaTypeSeries)))
}

// UpdateItemRequest represents a partial update of an item. Null clears
// notes, rating, season and episode.
type UpdateItemRequest struct {
	Title   Patch[string]  `json:"title"`
	Type    Patch[string]  `json:"type"`
	IsD21   Patch[bool]    `json:"is_d21"`
	Notes   Patch[string]  `json:"notes"`
	Rating  Patch[float64] `json:"rating"`
	Season  Patch[int]     `json:"season"`
	Episode Patch[int]     `json:"episode"`
}

// Validate checks the request shape
func (r *UpdateItemRequest) Validate() error {
	if r.Title.IsNull() || r.Type.IsNull() || r.IsD21.IsNull() {
		return errors.New("title, type and is_d21 cannot be null")
	}
	if r.Type.Present {
		return validation.Validate(*r.Type.Value, validation.In(string(models.MediaTypeMovie), string(models.MediaTypeSeries)))
	}
	return nil
}

// edit converts the request into a watchlist edit
func (r *UpdateItemRequest) edit() watchlist.ItemEdit {
	var e watchlist.ItemEdit
	if r.Title.Present {
		e.Title = watchlist.Some(*r.Title.Value)
	}
	if r.Type.Present {
		e.Type = watchlist.Some(models.MediaType(*r.Type.Value))
	}
	if r.IsD21.Present {
		e.IsD21 = watchlist.Some(*r.IsD21.Value)
	}
	if r.Notes.Present {
		e.Notes = watchlist.Some(r.Notes.Value)
	}
	if r.Rating.Present {
		rating := models.RatingNull()
		if r.Rating.Value != nil {
			rating = models.RatingOf(*r.Rating.Value)
		}
		e.Rating = watchlist.Some(rating)
	}
	if r.Season.Present {
		e.Season = watchlist.Some(r.Season.Value)
	}
	if r.Episode.Present {
		e.Episode = watchlist.Some(r.Episode.Value)
	}
	return e
}

// IDsRequest carries the ids of a bulk operation
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// Validate checks the request shape
func (r *IDsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IDs, validation.Required, validation.Each(validation.By(validateUUID))),
	)
}

// SetWatchedRequest represents a watched toggle
type SetWatchedRequest struct {
	Watched *bool `json:"watched"`
}

// Validate checks the request shape
func (r *SetWatchedRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Watched, validation.NotNil))
}

// MoveItemRequest represents a move into a folder; a null folder_id moves
// the item to standalone
type MoveItemRequest struct {
	FolderID *string `json:"folder_id"`
}

// Validate checks the request shape
func (r *MoveItemRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.FolderID, validation.By(validateUUID)))
}

// StepItemRequest represents a single-slot reorder
type StepItemRequest struct {
	Direction string `json:"direction"`
}

// Validate checks the request shape
func (r *StepItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Direction, validation.Required, validation.In(string(watchlist.Up), string(watchlist.Down))),
	)
}

// ReorderItemRequest represents a drag and drop onto another item
type ReorderItemRequest struct {
	TargetID string `json:"target_id"`
}

// Validate checks the request shape
func (r *ReorderItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TargetID, validation.Required, validation.By(validateUUID)),
	)
}

// BulkMoveRequest represents moving the items of a view into a folder
type BulkMoveRequest struct {
	IDs      []string `json:"ids"`
	FolderID *string  `json:"folder_id"`
	View     string   `json:"view"`
}

// Validate checks the request shape
func (r *BulkMoveRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IDs, validation.Required, validation.Each(validation.By(validateUUID))),
		validation.Field(&r.FolderID, validation.By(validateUUID)),
		validation.Field(&r.View, validation.Required, validation.By(validateView)),
	)
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Type      string        `json:"type"`
	Watched   bool          `json:"watched"`
	WatchedAt *time.Time    `json:"watched_at"`
	CreatedAt time.Time     `json:"created_at"`
	Order     int           `json:"order"`
	FolderID  *string       `json:"folder_id"`
	IsD21     bool          `json:"is_d21"`
	Notes     *string       `json:"notes,omitempty"`
	Rating    models.Rating `json:"rating,omitzero"`
	Season    *int          `json:"season,omitempty"`
	Episode   *int          `json:"episode,omitempty"`
}

// ItemListResponse represents a list of items
type ItemListResponse struct {
	Items []*ItemResponse `json:"items"`
}

// toItemResponse converts an item model to API response format
func toItemResponse(item *models.Item) *ItemResponse {
	resp := &ItemResponse{
		ID:        item.ID.String(),
		Title:     item.Title,
		Type:      string(item.Type),
		Watched:   item.Watched,
		WatchedAt: item.WatchedAt,
		CreatedAt: item.CreatedAt,
		Order:     item.Order,
		IsD21:     item.IsD21,
		Notes:     item.Notes,
		Rating:    item.Rating,
		Season:    item.Season,
		Episode:   item.Episode,
	}
	if item.FolderID != nil {
		id := item.FolderID.String()
		resp.FolderID = &id
	}
	return resp
}

func toItemResponses(items []*models.Item) []*ItemResponse {
	out := make([]*ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func validateUUID(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

func validateView(value interface{}) error {
	s, _ := value.(string)
	if _, err := watchlist.ParseView(s); err != nil {
		return errors.New("must be one of movies, series or watched")
	}
	return nil
}

// ItemHandler handles item-related API requests
type ItemHandler struct {
	handler
}

// NewItemHandler creates a new item handler instance
func NewItemHandler(service *library.Service, timeout time.Duration) *ItemHandler {
	return &ItemHandler{handler: newHandler(service, timeout)}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	items, err := h.service.ListItems(ctx, middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err, "list items")
		return
	}

	c.JSON(http.StatusOK, ItemListResponse{Items: toItemResponses(items)})
}

// GetItem handles GET /api/items/:id
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	item, err := h.service.GetItem(ctx, middleware.UserID(c), id)
	if err != nil {
		writeServiceError(c, err, "retrieve item")
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	item, err := h.service.AddItem(ctx, middleware.UserID(c), watchlist.NewItem{
		Title:   req.Title,
		Type:    models.MediaType(req.Type),
		Watched: req.Watched,
		IsD21:   req.IsD21,
		Notes:   req.Notes,
		Rating:  req.Rating,
		Season:  req.Season,
		Episode: req.Episode,
	})
	if err != nil {
		writeServiceError(c, err, "create item")
		return
	}

	logger.Log.Info().
		Str("item_id", item.ID.String()).
		Str("title", item.Title).
		Msg("Item created successfully")

	c.JSON(http.StatusCreated, toItemResponse(item))
}

// QuickAdd handles POST /api/items/quick-add
func (h *ItemHandler) QuickAdd(c *gin.Context) {
	var req QuickAddRequest
	if !bindJSON(c, &req) {
		return
	}

	entries := make([]watchlist.QuickAddEntry, 0, len(req.Items))
	for _, e := range req.Items {
		entries = append(entries, watchlist.QuickAddEntry{
			Title: strings.TrimSpace(e.Title),
			Type:  models.MediaType(e.Type),
		})
	}

	ctx, cancel := h.context(c)
	defer cancel()

	folderID, _ := parseOptionalID(req.FolderID)
	items, err := h.service.QuickAdd(ctx, middleware.UserID(c), entries, folderID)
	if err != nil {
		writeServiceError(c, err, "quick add items")
		return
	}

	c.JSON(http.StatusCreated, ItemListResponse{Items: toItemResponses(items)})
}

// UpdateItem handles PATCH /api/items/:id
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	item, err := h.service.EditItem(ctx, middleware.UserID(c), id, req.edit())
	if err != nil {
		writeServiceError(c, err, "update item")
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

// DeleteItem handles DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.DeleteItem(ctx, middleware.UserID(c), id)
	if err != nil {
		writeServiceError(c, err, "delete item")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// BulkDelete handles POST /api/items/bulk-delete
func (h *ItemHandler) BulkDelete(c *gin.Context) {
	var req IDsRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, _ := parseIDs(req.IDs)

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.BulkDelete(ctx, middleware.UserID(c), ids)
	if err != nil {
		writeServiceError(c, err, "delete items")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// DeleteWatched handles DELETE /api/items/watched
func (h *ItemHandler) DeleteWatched(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.DeleteAllWatched(ctx, middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err, "delete watched items")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// SetWatched handles PUT /api/items/:id/watched
func (h *ItemHandler) SetWatched(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req SetWatchedRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.SetWatched(ctx, middleware.UserID(c), id, *req.Watched)
	if err != nil {
		writeServiceError(c, err, "update watched status")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// MoveItem handles POST /api/items/:id/move
func (h *ItemHandler) MoveItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req MoveItemRequest
	if !bindJSON(c, &req) {
		return
	}
	folderID, _ := parseOptionalID(req.FolderID)

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.MoveItem(ctx, middleware.UserID(c), id, folderID)
	if err != nil {
		writeServiceError(c, err, "move item")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// StepItem handles POST /api/items/:id/step
func (h *ItemHandler) StepItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req StepItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.StepItem(ctx, middleware.UserID(c), id, watchlist.Direction(req.Direction))
	if err != nil {
		writeServiceError(c, err, "reorder item")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// ReorderItem handles POST /api/items/:id/reorder
func (h *ItemHandler) ReorderItem(c *gin.Context) {
	id, ok := paramID(c, "id", "item")
	if !ok {
		return
	}

	var req ReorderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	targetID, _ := uuid.Parse(req.TargetID)

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.ReorderItem(ctx, middleware.UserID(c), id, targetID)
	if err != nil {
		writeServiceError(c, err, "reorder item")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// BulkMove handles POST /api/items/bulk-move
func (h *ItemHandler) BulkMove(c *gin.Context) {
	var req BulkMoveRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, _ := parseIDs(req.IDs)
	folderID, _ := parseOptionalID(req.FolderID)

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.BulkMove(ctx, middleware.UserID(c), ids, folderID, watchlist.View(req.View))
	if err != nil {
		writeServiceError(c, err, "move items")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// SetupItemRoutes registers item routes
func SetupItemRoutes(apiGroup *gin.RouterGroup, service *library.Service, timeout time.Duration) {
	handler := NewItemHandler(service, timeout)

	apiGroup.GET("/items", handler.ListItems)
	apiGroup.POST("/items", handler.CreateItem)
	apiGroup.POST("/items/quick-add", handler.QuickAdd)
	apiGroup.POST("/items/bulk-delete", handler.BulkDelete)
	apiGroup.POST("/items/bulk-move", handler.BulkMove)
	apiGroup.DELETE("/items/watched", handler.DeleteWatched)
	apiGroup.GET("/items/:id", handler.GetItem)
	apiGroup.PATCH("/items/:id", handler.UpdateItem)
	apiGroup.DELETE("/items/:id", handler.DeleteItem)
	apiGroup.PUT("/items/:id/watched", handler.SetWatched)
	apiGroup.POST("/items/:id/move", handler.MoveItem)
	apiGroup.POST("/items/:id/step", handler.StepItem)
	apiGroup.POST("/items/:id/reorder", handler.ReorderItem)
}
