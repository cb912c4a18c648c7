package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusCompleted OrderStatus = "completed"
)

// Valid reports whether s is a recognized status
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted:
		return true
	}
	return false
}

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	CustomerID    uint                 `json:"customerId" gorm:"not null;index"`
	RestaurantID  uint                 `json:"restaurantId" gorm:"not null"`
	DestinationID uint                 `json:"destinationId" gorm:"not null"`
	DriverID      *uint                `json:"driverId" gorm:"index"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	OrderItems    []OrderItem          `json:"orderItems" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID"`
	Total         decimal.Decimal      `json:"total" gorm:"-"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type OrderItem struct {
	ID       uint  `json:"id" gorm:"primaryKey"`
	OrderID  uint  `json:"orderId" gorm:"not null;index"`
	FoodID   uint  `json:"foodId" gorm:"not null"`
	Food     *Food `json:"food,omitempty" gorm:"foreignKey:FoodID"`
	Quantity int   `json:"quantity" gorm:"not null"`
}

// OrderStatusHistory records every lifecycle transition of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"orderId" gorm:"not null;index"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint        `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ComputeTotal sums price × quantity over the items using the food's
// current price. Items without a loaded food contribute nothing.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.OrderItems {
		if item.Food == nil {
			continue
		}
		total = total.Add(item.Food.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.Total = total
	return total
}

// IsParty reports whether userID is the order's customer or its driver
func (o *Order) IsParty(userID uint) bool {
	return o.CustomerID == userID || o.IsAssignedTo(userID)
}

// IsAssignedTo reports whether driverID is the order's assigned driver
func (o *Order) IsAssignedTo(driverID uint) bool {
	return o.DriverID != nil && *o.DriverID == driverID
}
