package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/infrastructure/http/v1/dto"
)

// DocumentService is what every stock document service offers the HTTP layer.
type DocumentService[T any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, id id.ID) error
	NextNumber(ctx context.Context) (string, error)
}

// DocumentHandlerConfig configures a DocumentHandler.
type DocumentHandlerConfig[T any, Req any] struct {
	Service DocumentService[T]

	// ToEntity builds the document from a bound request; docID is nil on create.
	ToEntity func(req *Req, docID id.ID) T

	// Header exposes the shared header of a document for responses.
	Header func(doc T) *entity.Document

	// List runs the type-specific list with the shared filter already parsed.
	List func(c *gin.Context, base domain.ListFilter) (any, error)
}

// DocumentHandler provides generic HTTP handlers for stock documents.
type DocumentHandler[T any, Req any] struct {
	*BaseHandler
	cfg DocumentHandlerConfig[T, Req]
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler[T any, Req any](base *BaseHandler, cfg DocumentHandlerConfig[T, Req]) *DocumentHandler[T, Req] {
	return &DocumentHandler[T, Req]{BaseHandler: base, cfg: cfg}
}

// List handles GET /{documents}
func (h *DocumentHandler[T, Req]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.cfg.List(c, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get handles GET /{documents}/:id
func (h *DocumentHandler[T, Req]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.cfg.Service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /{documents}
func (h *DocumentHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.cfg.ToEntity(&req, id.Nil())
	if err := h.cfg.Service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.NewDocumentRef(h.cfg.Header(doc)))
}

// Update handles PUT /{documents}/:id
func (h *DocumentHandler[T, Req]) Update(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	doc := h.cfg.ToEntity(&req, docID)
	if err := h.cfg.Service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewDocumentRef(h.cfg.Header(doc)))
}

// Delete handles DELETE /{documents}/:id
func (h *DocumentHandler[T, Req]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.cfg.Service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// NextNumber handles GET /{documents}/next-number
func (h *DocumentHandler[T, Req]) NextNumber(c *gin.Context) {
	number, err := h.cfg.Service.NextNumber(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NumberResponse{Number: number})
}
