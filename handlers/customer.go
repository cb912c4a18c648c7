package handlers

import (
	"net/http"

	"food-delivery-broker/httpx"
	"food-delivery-broker/middleware"
	"food-delivery-broker/models"
	"food-delivery-broker/statemachine"

	"github.com/gin-gonic/gin"
)

type OrderItemRequest struct {
	FoodID   uint `json:"foodId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type PlaceOrderRequest struct {
	RestaurantID  uint               `json:"restaurantId" binding:"required"`
	DestinationID uint               `json:"destinationId" binding:"required"`
	OrderItems    []OrderItemRequest `json:"orderItems" binding:"required,dive"`
}

type UpdateOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// ListOrders returns the orders the caller is customer or driver of
//
// @Summary List my orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.OrdersVisibleTo(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"orders": orders})
}

// PlaceOrder creates a new pending order for the calling customer
//
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param body body PlaceOrderRequest true "Order"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Router /orders [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}

	items := make([]statemachine.ItemRequest, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = statemachine.ItemRequest{FoodID: item.FoodID, Quantity: item.Quantity}
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), middleware.GetIdentity(c), req.RestaurantID, req.DestinationID, items)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusCreated, gin.H{"order": order})
}

// GetOrder returns an order to its customer or assigned driver
//
// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Success 200 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), middleware.GetIdentity(c), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"order": order})
}

// UpdateOrder changes the status of an order; only its assigned driver may
//
// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order id"
// @Param body body UpdateOrderRequest true "New status"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /orders/{id} [put]
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BindError(err))
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), middleware.GetIdentity(c), id, req.Status)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"order": order})
}
