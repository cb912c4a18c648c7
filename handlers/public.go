package handlers

import (
	"context"
	"net/http"
	"time"

	"food-delivery-broker/httpx"
	"food-delivery-broker/models"
	"food-delivery-broker/statemachine"

	"github.com/gin-gonic/gin"
)

// ListRestaurants returns all restaurants
//
// @Summary List restaurants
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /restaurants [get]
func (h *Handler) ListRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"restaurants": restaurants})
}

// GetRestaurant returns a single restaurant with its foods
//
// @Summary Get restaurant
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restaurant id"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /restaurants/{id} [get]
func (h *Handler) GetRestaurant(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	restaurant, err := h.restaurants.FindByID(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the menu for a specific restaurant
//
// @Summary Restaurant menu
// @Tags restaurants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Restaurant id"
// @Param category query string false "Only foods of this category"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /restaurants/{id}/menu [get]
func (h *Handler) GetMenu(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	foods, err := h.restaurants.Menu(c.Request.Context(), id, c.Query("category"))
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{
		"restaurantId": id,
		"count":        len(foods),
		"menu":         foods,
	})
}

// ListDestinations returns every delivery destination
//
// @Summary List destinations
// @Tags destinations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /destinations [get]
func (h *Handler) ListDestinations(c *gin.Context) {
	destinations, err := h.destinations.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"destinations": destinations})
}

// GetDestination returns one destination
//
// @Summary Get destination
// @Tags destinations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Destination id"
// @Success 200 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /destinations/{id} [get]
func (h *Handler) GetDestination(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		httpx.Error(c, err)
		return
	}
	destination, err := h.destinations.FindByID(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Success(c, http.StatusOK, gin.H{"destination": destination})
}

// GetStateMachineInfo returns the full state machine for informational purposes
//
// @Summary Order lifecycle
// @Tags meta
// @Produce json
// @Success 200 {object} httpx.Envelope
// @Router /state-machine [get]
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var terminal []models.OrderStatus
	for _, s := range []models.OrderStatus{models.StatusPending, models.StatusAccepted, models.StatusCompleted} {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	httpx.Success(c, http.StatusOK, gin.H{
		"stateMachine":   statemachine.GetAllTransitions(),
		"initialState":   models.StatusPending,
		"terminalStates": terminal,
		"description":    "Food Delivery Order Lifecycle State Machine",
	})
}

// Health reports whether the service and its database are up
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.log.ErrorContext(ctx, "health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Food Delivery Order Broker",
		"version": "1.0.0",
	})
}
