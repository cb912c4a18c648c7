package statemachine

import (
	"context"
	"errors"
	"log/slog"

	"food-delivery-broker/errs"
	"food-delivery-broker/models"
	"food-delivery-broker/policy"
)

// OrderStore is the persistence contract of the lifecycle. AssignDriver
// and UpdateStatus must be single conditional writes: they fail with
// ErrConflict when the order is no longer in the expected state.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order, note string) (*models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByDriverID(ctx context.Context, driverID uint) ([]models.Order, error)
	FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	FindVisibleTo(ctx context.Context, userID uint) ([]models.Order, error)
	AssignDriver(ctx context.Context, id, driverID uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, id, driverID uint, from, to models.OrderStatus) (*models.Order, error)
}

type RestaurantFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Restaurant, error)
}

type DestinationFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Destination, error)
}

// ItemRequest is one line of an order being placed
type ItemRequest struct {
	FoodID   uint
	Quantity int
}

// Engine runs the order lifecycle: placement, claim and status updates,
// each gated by the authorization policy.
type Engine struct {
	orders       OrderStore
	restaurants  RestaurantFinder
	destinations DestinationFinder
	log          *slog.Logger
}

func NewEngine(orders OrderStore, restaurants RestaurantFinder, destinations DestinationFinder, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		orders:       orders,
		restaurants:  restaurants,
		destinations: destinations,
		log:          log.With("component", "order_lifecycle"),
	}
}

// PlaceOrder creates a pending order for the calling customer
func (e *Engine) PlaceOrder(ctx context.Context, actor models.Identity, restaurantID, destinationID uint, items []ItemRequest) (*models.Order, error) {
	if err := policy.Authorize(actor, policy.PlaceOrder, policy.Resource{}); err != nil {
		return nil, err
	}
	if restaurantID == 0 || destinationID == 0 {
		return nil, errs.Validation("Missing required fields: restaurantId, destinationId, and orderItems")
	}
	if len(items) == 0 {
		return nil, errs.Validation("orderItems must be a non-empty array")
	}

	restaurant, err := e.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, asValidation(err, "Restaurant %d does not exist", restaurantID)
	}
	if _, err := e.destinations.FindByID(ctx, destinationID); err != nil {
		return nil, asValidation(err, "Destination %d does not exist", destinationID)
	}

	menu := make(map[uint]bool, len(restaurant.Foods))
	for _, f := range restaurant.Foods {
		menu[f.ID] = true
	}
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.FoodID == 0 || item.Quantity <= 0 {
			return nil, errs.Validation("Each order item must have a foodId and a positive quantity")
		}
		if !menu[item.FoodID] {
			return nil, errs.Validation("Food %d is not on the menu of restaurant %d", item.FoodID, restaurantID)
		}
		orderItems = append(orderItems, models.OrderItem{FoodID: item.FoodID, Quantity: item.Quantity})
	}

	if err := CanTransition("", models.StatusPending, actor.Role); err != nil {
		return nil, err
	}
	order, err := e.orders.Create(ctx, &models.Order{
		CustomerID:    actor.ID,
		RestaurantID:  restaurantID,
		DestinationID: destinationID,
		Status:        models.StatusPending,
		OrderItems:    orderItems,
	}, "Order placed by customer")
	if err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "order placed", "order_id", order.ID, "customer_id", actor.ID, "items", len(orderItems))
	return order, nil
}

// ClaimOrder assigns a pending order to the calling driver. driverID is
// the driver the request names and must be the caller.
func (e *Engine) ClaimOrder(ctx context.Context, actor models.Identity, driverID, orderID uint) (*models.Order, error) {
	if err := policy.Authorize(actor, policy.ClaimOrder, policy.Resource{DriverID: driverID}); err != nil {
		return nil, err
	}

	order, err := e.orders.AssignDriver(ctx, orderID, actor.ID)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			e.log.WarnContext(ctx, "order claim rejected", "order_id", orderID, "driver_id", actor.ID)
		}
		return nil, err
	}

	e.log.InfoContext(ctx, "order claimed", "order_id", order.ID, "driver_id", actor.ID,
		"from", models.StatusPending, "to", models.StatusAccepted)
	return order, nil
}

// UpdateOrderStatus lets the assigned driver move the order along the lifecycle
func (e *Engine) UpdateOrderStatus(ctx context.Context, actor models.Identity, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if status == "" {
		return nil, errs.Validation("Missing required field: status")
	}
	if !status.Valid() {
		return nil, errs.Validation("Unknown status %q", status)
	}
	order, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.UpdateOrderStatus, policy.Resource{Order: order}); err != nil {
		return nil, err
	}
	if err := CanTransition(order.Status, status, actor.Role); err != nil {
		return nil, err
	}

	updated, err := e.orders.UpdateStatus(ctx, order.ID, actor.ID, order.Status, status)
	if err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "order status updated", "order_id", order.ID, "driver_id", actor.ID,
		"from", order.Status, "to", status)
	return updated, nil
}

// GetOrder returns an order to its customer or its driver
func (e *Engine) GetOrder(ctx context.Context, actor models.Identity, orderID uint) (*models.Order, error) {
	order, err := e.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ReadOrder, policy.Resource{Order: order}); err != nil {
		return nil, err
	}
	return order, nil
}

// OrdersVisibleTo lists the orders the caller is customer or driver of
func (e *Engine) OrdersVisibleTo(ctx context.Context, actor models.Identity) ([]models.Order, error) {
	if err := policy.Authorize(actor, policy.ListOrders, policy.Resource{}); err != nil {
		return nil, err
	}
	return e.orders.FindVisibleTo(ctx, actor.ID)
}

// AvailableOrders lists the orders a driver can still claim
func (e *Engine) AvailableOrders(ctx context.Context, actor models.Identity) ([]models.Order, error) {
	if err := policy.Authorize(actor, policy.ListAvailableOrders, policy.Resource{}); err != nil {
		return nil, err
	}
	return e.orders.FindByStatus(ctx, models.StatusPending)
}

// DriverHistory lists every order ever claimed by driverID, for that driver only
func (e *Engine) DriverHistory(ctx context.Context, actor models.Identity, driverID uint) ([]models.Order, error) {
	if err := policy.Authorize(actor, policy.ViewDriverHistory, policy.Resource{DriverID: driverID}); err != nil {
		return nil, err
	}
	return e.orders.FindByDriverID(ctx, driverID)
}

// asValidation turns a missing reference into a validation failure
func asValidation(err error, format string, args ...any) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.Validation(format, args...)
	}
	return err
}
