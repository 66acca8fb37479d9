package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers reservation routes and the availability queries
// hanging off /resources. Writes go through writeMiddleware.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, writeMiddleware ...gin.HandlerFunc) {
	reservations := g.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.GET("/:id", h.Get)
		reservations.POST("/check-availability", h.CheckAvailability)
	}

	writes := reservations.Group("", writeMiddleware...)
	{
		writes.POST("", h.Create)
		writes.PATCH("/:id", h.Update)
		writes.DELETE("/:id", h.Delete)
	}

	resources := g.Group("/resources")
	{
		resources.GET("/available", h.AvailableResources)
		resources.GET("/:id/availability", h.Availability)
		resources.GET("/:id/availability/check", h.CheckResourceAvailability)
	}
}
