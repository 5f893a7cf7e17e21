package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"millstock/internal/core/apperror"
	"millstock/internal/domain/registers/stock"
)

// StockHandler serves read-only views of both pools.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// ItemStock handles GET /stock/items/:id
func (h *StockHandler) ItemStock(c *gin.Context) {
	itemID, ok := h.ParseID(c)
	if !ok {
		return
	}

	view, err := h.service.ItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

// FloorStock handles GET /stock/floor?onlyPositive=true
func (h *StockHandler) FloorStock(c *gin.Context) {
	filter := stock.FloorFilter{}
	if raw := c.Query("onlyPositive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("onlyPositive must be a boolean").WithDetail("field", "onlyPositive"))
			return
		}
		filter.OnlyPositive = v
	}

	entries, err := h.service.ListFloorStock(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	if entries == nil {
		entries = []stock.FloorEntry{}
	}
	h.OK(c, gin.H{"items": entries})
}
