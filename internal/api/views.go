package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stwalsh4118/trackflix/internal/library"
	"github.com/stwalsh4118/trackflix/internal/middleware"
	"github.com/stwalsh4118/trackflix/internal/watchlist"
)

// ViewHandler handles categorized views, selections and duplicate detection
type ViewHandler struct {
	handler
}

// NewViewHandler creates a new view handler instance
func NewViewHandler(service *library.Service, timeout time.Duration) *ViewHandler {
	return &ViewHandler{handler: newHandler(service, timeout)}
}

// viewQuery reads the page of a view a request refers to. The view name comes
// from the path when present, otherwise from ?view=.
func viewQuery(c *gin.Context) (library.ViewQuery, bool) {
	name := c.Param("view")
	if name == "" {
		name = c.Query("view")
	}
	view, err := watchlist.ParseView(name)
	if err != nil {
		return library.ViewQuery{}, badQuery(c, err.Error())
	}
	filter, err := watchlist.ParseWatchedFilter(c.Query("filter"))
	if err != nil {
		return library.ViewQuery{}, badQuery(c, err.Error())
	}

	q := library.ViewQuery{View: view, Search: c.Query("q")}
	if view.IsWatched() {
		q.Filter = filter
		if raw := c.Query("sort"); raw != "" {
			sort, err := watchlist.ParseWatchedSort(raw)
			if err != nil {
				return library.ViewQuery{}, badQuery(c, err.Error())
			}
			q.Sort = sort
		}
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &q.Page},
		{"per_page", &q.PerPage},
		{"folder_page", &q.FolderPage},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return library.ViewQuery{}, badQuery(c, p.name+" must be a positive integer")
		}
		*p.dst = n
	}

	if raw := c.Query("folder_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return library.ViewQuery{}, badQuery(c, "folder_id must be a valid UUID")
		}
		q.Folder = &id
	}
	return q, true
}

func badQuery(c *gin.Context, message string) bool {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_query",
		Message: message,
	})
	return false
}

// GetView handles GET /api/views/:view
func (h *ViewHandler) GetView(c *gin.Context) {
	q, ok := viewQuery(c)
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	page, err := h.service.View(ctx, middleware.UserID(c), q)
	if err != nil {
		writeServiceError(c, err, "load view")
		return
	}

	c.JSON(http.StatusOK, page)
}

// ToggleSelectionRequest represents a checkbox click
type ToggleSelectionRequest struct {
	ItemID string `json:"item_id"`
}

// Validate checks the request shape
func (r *ToggleSelectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ItemID, validation.Required, validation.By(validateUUID)),
	)
}

// SelectAllRequest represents the select-all checkbox of a page
type SelectAllRequest struct {
	Checked *bool `json:"checked"`
}

// Validate checks the request shape
func (r *SelectAllRequest) Validate() error {
	return validation.ValidateStruct(r, validation.Field(&r.Checked, validation.NotNil))
}

// GetSelection handles GET /api/selection?view=&per_page=&page=&q=&folder_id=
func (h *ViewHandler) GetSelection(c *gin.Context) {
	q, ok := viewQuery(c)
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	state, err := h.service.Selection(ctx, middleware.UserID(c), q)
	if err != nil {
		writeServiceError(c, err, "load selection")
		return
	}

	c.JSON(http.StatusOK, state)
}

// ToggleSelection handles POST /api/selection/toggle
func (h *ViewHandler) ToggleSelection(c *gin.Context) {
	q, ok := viewQuery(c)
	if !ok {
		return
	}

	var req ToggleSelectionRequest
	if !bindJSON(c, &req) {
		return
	}
	itemID, _ := uuid.Parse(req.ItemID)

	ctx, cancel := h.context(c)
	defer cancel()

	state, err := h.service.ToggleSelection(ctx, middleware.UserID(c), q, itemID)
	if err != nil {
		writeServiceError(c, err, "update selection")
		return
	}

	c.JSON(http.StatusOK, state)
}

// SelectAll handles POST /api/selection/all
func (h *ViewHandler) SelectAll(c *gin.Context) {
	q, ok := viewQuery(c)
	if !ok {
		return
	}

	var req SelectAllRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	state, err := h.service.SelectAll(ctx, middleware.UserID(c), q, *req.Checked)
	if err != nil {
		writeServiceError(c, err, "update selection")
		return
	}

	c.JSON(http.StatusOK, state)
}

// ClearSelection handles DELETE /api/selection
func (h *ViewHandler) ClearSelection(c *gin.Context) {
	h.service.ClearSelection(middleware.UserID(c))
	c.Status(http.StatusNoContent)
}

// MoveSelection handles POST /api/selection/move
func (h *ViewHandler) MoveSelection(c *gin.Context) {
	q, ok := viewQuery(c)
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

	result, err := h.service.MoveSelection(ctx, middleware.UserID(c), q, folderID)
	if err != nil {
		writeServiceError(c, err, "move selected items")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// DeleteSelection handles POST /api/selection/delete
func (h *ViewHandler) DeleteSelection(c *gin.Context) {
	q, ok := viewQuery(c)
	if !ok {
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	result, err := h.service.DeleteSelection(ctx, middleware.UserID(c), q)
	if err != nil {
		writeServiceError(c, err, "delete selected items")
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// DuplicateGroupResponse is a group of items whose titles look alike
type DuplicateGroupResponse struct {
	Title      string          `json:"title"`
	Normalized string          `json:"normalized"`
	KeeperID   string          `json:"keeper_id"`
	Items      []*ItemResponse `json:"items"`
}

// DuplicatesResponse lists duplicate groups
type DuplicatesResponse struct {
	Groups []*DuplicateGroupResponse `json:"groups"`
}

// GetDuplicates handles GET /api/duplicates
func (h *ViewHandler) GetDuplicates(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	groups, err := h.service.Duplicates(ctx, middleware.UserID(c))
	if err != nil {
		writeServiceError(c, err, "find duplicates")
		return
	}

	out := make([]*DuplicateGroupResponse, 0, len(groups))
	for _, g := range groups {
		resp := &DuplicateGroupResponse{
			Title:      g.Title,
			Normalized: g.Normalized,
			Items:      toItemResponses(g.Items),
		}
		if keeper := g.Keeper(); keeper != nil {
			resp.KeeperID = keeper.ID.String()
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, DuplicatesResponse{Groups: out})
}

// SetupViewRoutes registers view, selection and duplicate routes
func SetupViewRoutes(apiGroup *gin.RouterGroup, service *library.Service, timeout time.Duration) {
	handler := NewViewHandler(service, timeout)

	apiGroup.GET("/views/:view", handler.GetView)
	apiGroup.GET("/duplicates", handler.GetDuplicates)

	selection := apiGroup.Group("/selection")
	selection.GET("", handler.GetSelection)
	selection.DELETE("", handler.ClearSelection)
	selection.POST("/toggle", handler.ToggleSelection)
	selection.POST("/all", handler.SelectAll)
	selection.POST("/move", handler.MoveSelection)
	selection.POST("/delete", handler.DeleteSelection)
}
