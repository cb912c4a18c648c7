package store_test

import (
	"context"
	"testing"

	"food-delivery-broker/errs"
	"food-delivery-broker/models"
	"food-delivery-broker/store"
	"food-delivery-broker/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurants(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCatalog(t, db)
	restaurants := store.NewRestaurants(db)
	ctx := context.Background()

	list, err := restaurants.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Empty(t, list[0].Foods)

	one, err := restaurants.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Panera Bread", one.Name)
	require.Len(t, one.Foods, 2)
	assert.Equal(t, "5.99", one.Foods[0].Price.StringFixed(2))

	_, err = restaurants.FindByID(ctx, 99)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRestaurantMenu(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCatalog(t, db)
	restaurants := store.NewRestaurants(db)
	ctx := context.Background()

	menu, err := restaurants.Menu(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, menu, 2)

	lunch, err := restaurants.Menu(ctx, 2, "Lunch")
	require.NoError(t, err)
	assert.Empty(t, lunch)

	dinner, err := restaurants.Menu(ctx, 2, "Dinner")
	require.NoError(t, err)
	require.Len(t, dinner, 1)
	assert.Equal(t, "Sub", dinner[0].Name)

	_, err = restaurants.Menu(ctx, 42, "")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDestinations(t *testing.T) {
	db := testutil.NewDB(t)
	destinations := store.NewDestinations(db)
	ctx := context.Background()

	empty, err := destinations.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	d := &models.Destination{Name: "Office", Address: "1 Market St", Phone: "415-555-0000"}
	require.NoError(t, destinations.Create(ctx, d))
	assert.NotZero(t, d.ID)

	found, err := destinations.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Office", found.Name)

	_, err = destinations.FindByID(ctx, d.ID+1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUsers(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUsers(db)
	ctx := context.Background()

	u := &models.User{Email: "a@example.com", PasswordHash: "x", FirstName: "A", LastName: "B", Role: models.RoleCustomer}
	require.NoError(t, users.Create(ctx, u))

	dup := &models.User{Email: "a@example.com", PasswordHash: "y", FirstName: "C", LastName: "D", Role: models.RoleDriver}
	assert.ErrorIs(t, users.Create(ctx, dup), errs.ErrConflict)

	byEmail, err := users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "x", byEmail.PasswordHash)
	assert.True(t, byEmail.AccountBalance.IsZero())

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	byID, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = users.FindByID(ctx, 500)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
