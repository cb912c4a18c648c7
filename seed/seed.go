// Package seed loads the demo catalog and the bootstrap admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"food-delivery-broker/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Hasher hashes the admin password
type Hasher interface {
	Hash(password string) (string, error)
}

// Admin is the account created when both fields are set
type Admin struct {
	Email    string
	Password string
}

var destinations = []models.Destination{
	{ID: 1, Name: "Location 1", Address: "1234 Main St", Phone: "415-555-1212"},
	{ID: 2, Name: "Location 2", Address: "5678 Elm St", Phone: "415-555-3434"},
	{ID: 3, Name: "Location 3", Address: "9101 Oak St", Phone: "415-555-5656"},
}

var restaurants = []models.Restaurant{
	{ID: 1, Name: "Panera Bread", Address: "1234 Main St", Phone: "415-555-1212", Notes: "Good for lunch"},
	{ID: 2, Name: "Firehouse Subs", Address: "5678 Elm St", Phone: "415-555-3434", Notes: "Good for lunch"},
}

var foods = []models.Food{
	{ID: 1, RestaurantID: 1, Name: "Sandwich", Description: "A delicious sandwich", Price: decimal.RequireFromString("5.99"), Category: "Lunch"},
	{ID: 2, RestaurantID: 1, Name: "Salad", Description: "A delicious salad", Price: decimal.RequireFromString("7.99"), Category: "Lunch"},
	{ID: 3, RestaurantID: 2, Name: "Sub", Description: "A delicious sub", Price: decimal.RequireFromString("7.99"), Category: "Lunch"},
}

// Run upserts the catalog and, when configured, the admin account.
// Running it again leaves the same rows in place.
func Run(ctx context.Context, db *gorm.DB, admin Admin, hasher Hasher, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "seed")

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, destinations, "name", "address", "phone"); err != nil {
			return fmt.Errorf("seed destinations: %w", err)
		}
		if err := upsert(tx, restaurants, "name", "address", "phone", "notes"); err != nil {
			return fmt.Errorf("seed restaurants: %w", err)
		}
		if err := upsert(tx, foods, "restaurant_id", "name", "description", "price", "category"); err != nil {
			return fmt.Errorf("seed foods: %w", err)
		}
		return resetSequences(tx, "destinations", "restaurants", "foods")
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "catalog seeded",
		"destinations", len(destinations), "restaurants", len(restaurants), "foods", len(foods))

	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	created, err := ensureAdmin(ctx, db, admin, hasher)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.InfoContext(ctx, "admin account created", "email", admin.Email)
	}
	return nil
}

func upsert[T any](tx *gorm.DB, rows []T, columns ...string) error {
	// copy so the package-level fixtures keep their zero timestamps
	batch := append([]T(nil), rows...)
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&batch).Error
}

// resetSequences moves postgres id sequences past the explicitly inserted ids
func resetSequences(tx *gorm.DB, tables ...string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range tables {
		sql := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))", table)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, db *gorm.DB, admin Admin, hasher Hasher) (bool, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return false, err
	}
	user := models.User{
		Email:        admin.Email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
