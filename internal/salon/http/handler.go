package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/response"
	"github.com/nekogravitycat/reservation-backend/internal/salon"
)

type Handler struct {
	service salon.Service
}

func NewHandler(service salon.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	info, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewInfoResponse(info))
}

func (h *Handler) Update(c *gin.Context) {
	var body UpdateInfoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	info, err := h.service.Update(c.Request.Context(), salon.UpdateRequest{
		Name:               body.Name,
		Description:        body.Description,
		BusinessHoursStart: *body.BusinessHoursStart,
		BusinessHoursEnd:   *body.BusinessHoursEnd,
		InteriorImageURL:   body.InteriorImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewInfoResponse(info))
}
