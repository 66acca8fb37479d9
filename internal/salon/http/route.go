package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, writeMiddleware ...gin.HandlerFunc) {
	group := g.Group("/salon")
	group.GET("/info", h.Get)

	writes := group.Group("", writeMiddleware...)
	writes.PUT("/info", h.Update)
}
