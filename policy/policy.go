// Package policy decides which identity may perform which action.
//
// Authorize is the single place role and ownership checks live. It has no
// side effects and reads nothing but its arguments.
package policy

import (
	"food-delivery-broker/errs"
	"food-delivery-broker/models"
)

type Action string

const (
	ListOrders          Action = "orders:list"
	ReadOrder           Action = "orders:read"
	PlaceOrder          Action = "orders:place"
	ClaimOrder          Action = "orders:claim"
	UpdateOrderStatus   Action = "orders:update-status"
	ListAvailableOrders Action = "drivers:list-available"
	ViewDriverHistory   Action = "drivers:history"
	CreateDestination   Action = "destinations:create"
)

// Actions lists every action Authorize knows about
var Actions = []Action{
	ListOrders, ReadOrder, PlaceOrder, ClaimOrder, UpdateOrderStatus,
	ListAvailableOrders, ViewDriverHistory, CreateDestination,
}

// Resource is what the decision is about besides the actor.
// Order is required for ReadOrder and UpdateOrderStatus; DriverID is the
// driver named in the request for ClaimOrder and ViewDriverHistory.
type Resource struct {
	Order    *models.Order
	DriverID uint
}

// Authorize returns nil when actor may perform action on res, otherwise an
// ErrAuthorization error carrying the reason.
func Authorize(actor models.Identity, action Action, res Resource) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return errs.Authorization("Unknown identity")
	}

	switch action {
	case ListOrders:
		return nil

	case ReadOrder:
		if res.Order != nil && res.Order.IsParty(actor.ID) {
			return nil
		}
		return errs.Authorization("You are not authorized to view this order")

	case PlaceOrder:
		if actor.Role == models.RoleCustomer {
			return nil
		}
		return errs.Authorization("You are not authorized to place an order")

	case ClaimOrder:
		if actor.Role == models.RoleDriver && res.DriverID == actor.ID {
			return nil
		}
		return errs.Authorization("You are not authorized to claim orders for this driver")

	case UpdateOrderStatus:
		if res.Order != nil && res.Order.IsAssignedTo(actor.ID) {
			return nil
		}
		return errs.Authorization("You are not authorized to update this order")

	case ListAvailableOrders:
		if actor.Role == models.RoleDriver {
			return nil
		}
		return errs.Authorization("Only drivers can list available orders")

	case ViewDriverHistory:
		if actor.Role == models.RoleDriver && res.DriverID == actor.ID {
			return nil
		}
		return errs.Authorization("You are not authorized to view this driver's orders")

	case CreateDestination:
		if actor.Role == models.RoleAdmin {
			return nil
		}
		return errs.Authorization("Only admins can create destinations")
	}

	return errs.Authorization("Unknown action %q", action)
}
