package handlers

import (
	"net/http"

	"food-delivery-broker/httpx"
	"food-delivery-broker/middleware"
	"food-delivery-broker/models"

	"github.com/gin-gonic/gin"
)

// GetAvailableOrders shows pending orders that have no driver assigned
//
// @Summary Claimable orders
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver id"
// @Success 200 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Router /drivers/{id}/orders/available [get]
func (h *Handler) GetAvailableOrders(c *gin.Context) {
	orders, err := h.orders.AvailableOrders(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// AcceptOrder claims a pending order for the calling driver.
// The claimed order is returned as the only element of "orders".
//
// @Summary Claim an order
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver id"
// @Param orderId path int true "Order id"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /drivers/{id}/orders/{orderId}/accept [get]
func (h *Handler) AcceptOrder(c *gin.Context) {
	driverID, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	orderID, err := pathID(c, "orderId")
	if err != nil {
		httpx.Error(c, err)
		return
	}

	order, err := h.orders.ClaimOrder(c.Request.Context(), middleware.GetIdentity(c), driverID, orderID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"orders": []models.Order{*order}})
}

// GetDriverHistory returns every order the driver has claimed
//
// @Summary Driver order history
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Driver id"
// @Success 200 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Router /drivers/{id}/orders/history [get]
func (h *Handler) GetDriverHistory(c *gin.Context) {
	driverID, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	orders, err := h.orders.DriverHistory(c.Request.Context(), middleware.GetIdentity(c), driverID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"orders": orders})
}
