package store

import (
	"context"
	"errors"
	"fmt"

	"food-delivery-broker/errs"
	"food-delivery-broker/models"

	"gorm.io/gorm"
)

// ── Restaurants ─────────────────────────────────────────────────────────────

type Restaurants struct {
	db *gorm.DB
}

func NewRestaurants(db *gorm.DB) *Restaurants {
	return &Restaurants{db: db}
}

// List returns all restaurants without their menus
func (s *Restaurants) List(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	if err := s.db.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// FindByID returns a restaurant together with its foods
func (s *Restaurants) FindByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("Foods", func(db *gorm.DB) *gorm.DB { return db.Order("foods.id") }).
		First(&restaurant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("restaurant", id)
		}
		return nil, fmt.Errorf("find restaurant %d: %w", id, err)
	}
	return &restaurant, nil
}

// Menu returns a restaurant's foods, optionally only one category
func (s *Restaurants) Menu(ctx context.Context, id uint, category string) ([]models.Food, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("find restaurant %d: %w", id, err)
	}
	if count == 0 {
		return nil, errs.NotFound("restaurant", id)
	}

	query := s.db.WithContext(ctx).Where("restaurant_id = ?", id)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	foods := []models.Food{}
	if err := query.Order("id").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return foods, nil
}

// ── Destinations ────────────────────────────────────────────────────────────

type Destinations struct {
	db *gorm.DB
}

func NewDestinations(db *gorm.DB) *Destinations {
	return &Destinations{db: db}
}

func (s *Destinations) List(ctx context.Context) ([]models.Destination, error) {
	destinations := []models.Destination{}
	if err := s.db.WithContext(ctx).Order("id").Find(&destinations).Error; err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return destinations, nil
}

func (s *Destinations) FindByID(ctx context.Context, id uint) (*models.Destination, error) {
	var destination models.Destination
	if err := s.db.WithContext(ctx).First(&destination, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("destination", id)
		}
		return nil, fmt.Errorf("find destination %d: %w", id, err)
	}
	return &destination, nil
}

func (s *Destinations) Create(ctx context.Context, destination *models.Destination) error {
	if err := s.db.WithContext(ctx).Create(destination).Error; err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return nil
}
