// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"food-delivery-broker/config"
	"food-delivery-broker/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// Catalog is the fixture set most tests start from
type Catalog struct {
	Restaurant  models.Restaurant
	Other       models.Restaurant
	Destination models.Destination
}

// SeedCatalog inserts two restaurants with foods and one destination.
// Restaurant 1 serves foods 1 and 2, restaurant 2 serves food 3.
func SeedCatalog(t testing.TB, db *gorm.DB) Catalog {
	t.Helper()

	c := Catalog{
		Restaurant: models.Restaurant{ID: 1, Name: "Panera Bread", Address: "1234 Main St", Foods: []models.Food{
			{ID: 1, Name: "Sandwich", Price: decimal.RequireFromString("5.99"), Category: "Lunch"},
			{ID: 2, Name: "Salad", Price: decimal.RequireFromString("7.99"), Category: "Lunch"},
		}},
		Other: models.Restaurant{ID: 2, Name: "Firehouse Subs", Address: "5678 Elm St", Foods: []models.Food{
			{ID: 3, Name: "Sub", Price: decimal.RequireFromString("7.99"), Category: "Dinner"},
		}},
		Destination: models.Destination{ID: 1, Name: "Location 1", Address: "1234 Main St", Phone: "415-555-1212"},
	}
	require.NoError(t, db.Create(&c.Restaurant).Error)
	require.NoError(t, db.Create(&c.Other).Error)
	require.NoError(t, db.Create(&c.Destination).Error)
	return c
}

// CreateUser inserts a user with the given role and an unusable password hash
func CreateUser(t testing.TB, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()

	u := models.User{Email: email, PasswordHash: "-", FirstName: "Test", LastName: "User", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}
