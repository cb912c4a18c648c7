package handlers

import (
	"net/http"

	"food-delivery-broker/httpx"
	"food-delivery-broker/middleware"
	"food-delivery-broker/models"

	"github.com/gin-gonic/gin"
)

type CreateDestinationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone"`
}

// CreateDestination adds a delivery destination. The route is gated to admins.
//
// @Summary Create destination
// @Tags destinations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDestinationRequest true "Destination"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Router /destinations [post]
func (h *Handler) CreateDestination(c *gin.Context) {
	var req CreateDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}

	destination := &models.Destination{Name: req.Name, Address: req.Address, Phone: req.Phone}
	if err := h.destinations.Create(c.Request.Context(), destination); err != nil {
		httpx.Error(c, err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "destination created",
		"destination_id", destination.ID, "admin_id", middleware.GetIdentity(c).ID)
	httpx.Success(c, http.StatusCreated, gin.H{"destination": destination})
}
