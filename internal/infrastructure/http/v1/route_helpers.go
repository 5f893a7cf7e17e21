// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// DocumentRouteHandler defines the interface for document handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	NextNumber(c *gin.Context)
}

// RegisterDocumentRoutes registers the standard routes of a stock document.
// next-number is registered before /:id so the literal segment wins.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/next-number", handler.NextNumber)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
