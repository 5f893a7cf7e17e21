// Package handlers provides HTTP request handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, bindingError("invalid request body", err))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, bindingError("invalid query parameters", err))
		return false
	}
	return true
}

// bindingError turns validator failures into field/tag details.
func bindingError(message string, err error) *apperror.AppError {
	appErr := apperror.NewValidation(message)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		first := verrs[0]
		return appErr.
			WithDetail("field", first.Field()).
			WithDetail("fields", fields)
	}
	return appErr.WithDetail("error", err.Error())
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	parsed, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", "id"))
		return id.Nil(), false
	}
	return parsed, true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Created sends 201 response.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
