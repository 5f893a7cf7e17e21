package handlers

import (
	"github.com/gin-gonic/gin"

	"millstock/internal/domain/catalogs/item"
	"millstock/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles HTTP requests for the item master.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates a new item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	var q dto.ItemListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Get handles GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), it, req.OpeningStock); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it)
}

// Update handles PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	it, err := h.service.GetByID(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(it)
	if err := h.service.Update(ctx, it); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Delete handles DELETE /items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
