package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource CRUD routes. Write routes go through the
// given middleware chain (rate limiting).
func RegisterRoutes(g *gin.RouterGroup, h *Handler, writeMiddleware ...gin.HandlerFunc) {
	group := g.Group("/resources")
	{
		group.GET("", h.List)    // List resources
		group.GET("/:id", h.Get) // Get resource details
	}

	writes := group.Group("", writeMiddleware...)
	{
		writes.POST("", h.Create)       // Create resource
		writes.PATCH("/:id", h.Update)  // Update resource
		writes.DELETE("/:id", h.Delete) // Delete resource
	}
}
