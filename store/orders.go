package store

import (
	"context"
	"errors"
	"fmt"

	"food-delivery-broker/errs"
	"food-delivery-broker/models"

	"gorm.io/gorm"
)

// Orders is the gorm-backed order repository. Every read returns orders
// hydrated with their items and foods and with Total computed.
type Orders struct {
	db *gorm.DB
}

func NewOrders(db *gorm.DB) *Orders {
	return &Orders{db: db}
}

func (s *Orders) hydrated(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("OrderItems.Food")
}

// Create inserts the order with its items and the initial history entry
func (s *Orders) Create(ctx context.Context, order *models.Order, note string) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: order.CustomerID,
			Note:      note,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return s.FindByID(ctx, order.ID)
}

// FindByID returns one order including its status history
func (s *Orders) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.hydrated(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("order_status_histories.id") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("order", id)
		}
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	order.ComputeTotal()
	return &order, nil
}

func (s *Orders) FindByDriverID(ctx context.Context, driverID uint) ([]models.Order, error) {
	return s.find(ctx, "driver_id = ?", driverID)
}

func (s *Orders) FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.find(ctx, "status = ?", status)
}

// FindVisibleTo returns the orders userID takes part in, as customer or as driver
func (s *Orders) FindVisibleTo(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.find(ctx, "customer_id = ? OR driver_id = ?", userID, userID)
}

func (s *Orders) find(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.hydrated(ctx).Where(query, args...).Order("orders.id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	for i := range orders {
		orders[i].ComputeTotal()
	}
	return orders, nil
}

// AssignDriver claims a pending order for driverID in one conditional
// update. When another writer got there first no row matches and the
// claim fails with ErrConflict.
func (s *Orders) AssignDriver(ctx context.Context, id, driverID uint) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ? AND driver_id IS NULL", id, models.StatusPending).
			Updates(map[string]any{"status": models.StatusAccepted, "driver_id": driverID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, id, "This order is not available to be claimed")
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: models.StatusPending,
			ToStatus:   models.StatusAccepted,
			ChangedBy:  driverID,
			Note:       "Order claimed by driver",
		}).Error
	})
	if err != nil {
		return nil, wrapWrite("assign driver", err)
	}
	return s.FindByID(ctx, id)
}

// UpdateStatus moves the order from one status to another, provided it is
// still in from and still assigned to driverID when the write lands.
func (s *Orders) UpdateStatus(ctx context.Context, id, driverID uint, from, to models.OrderStatus) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND driver_id = ? AND status = ?", id, driverID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx, id, "Order was modified concurrently, retry")
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  driverID,
			Note:       "Status updated by driver",
		}).Error
	})
	if err != nil {
		return nil, wrapWrite("update order status", err)
	}
	return s.FindByID(ctx, id)
}

func missingOrConflict(tx *gorm.DB, id uint, msg string) error {
	var count int64
	if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NotFound("order", id)
	}
	return errs.Conflict("%s", msg)
}

// wrapWrite keeps classified errors as they are and wraps storage failures
func wrapWrite(op string, err error) error {
	var classified *errs.Error
	if errors.As(err, &classified) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
