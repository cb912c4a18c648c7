// Package handlers adapts HTTP requests to the account, catalog and order
// lifecycle services. Handlers only bind input and shape responses.
package handlers

import (
	"context"
	"log/slog"
	"strconv"

	"food-delivery-broker/auth"
	"food-delivery-broker/errs"
	"food-delivery-broker/models"
	"food-delivery-broker/statemachine"

	"github.com/gin-gonic/gin"
)

type RestaurantCatalog interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	FindByID(ctx context.Context, id uint) (*models.Restaurant, error)
	Menu(ctx context.Context, id uint, category string) ([]models.Food, error)
}

type DestinationCatalog interface {
	List(ctx context.Context) ([]models.Destination, error)
	FindByID(ctx context.Context, id uint) (*models.Destination, error)
	Create(ctx context.Context, destination *models.Destination) error
}

// Pinger reports whether the database answers
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	accounts     *auth.Accounts
	orders       *statemachine.Engine
	restaurants  RestaurantCatalog
	destinations DestinationCatalog
	db           Pinger
	log          *slog.Logger
}

func New(accounts *auth.Accounts, orders *statemachine.Engine, restaurants RestaurantCatalog,
	destinations DestinationCatalog, db Pinger, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		accounts:     accounts,
		orders:       orders,
		restaurants:  restaurants,
		destinations: destinations,
		db:           db,
		log:          log.With("component", "handlers"),
	}
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errs.Validation("Invalid %s: %q", name, c.Param(name))
	}
	return uint(id), nil
}
