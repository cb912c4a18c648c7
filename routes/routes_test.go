package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"food-delivery-broker/auth"
	"food-delivery-broker/handlers"
	"food-delivery-broker/models"
	"food-delivery-broker/routes"
	"food-delivery-broker/statemachine"
	"food-delivery-broker/store"
	"food-delivery-broker/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type orderJSON struct {
	ID         uint               `json:"id"`
	CustomerID uint               `json:"customerId"`
	DriverID   *uint              `json:"driverId"`
	Status     models.OrderStatus `json:"status"`
	Total      string             `json:"total"`
	OrderItems []struct {
		FoodID   uint `json:"foodId"`
		Quantity int  `json:"quantity"`
	} `json:"orderItems"`
	StatusHistory []struct {
		ToStatus models.OrderStatus `json:"toStatus"`
	} `json:"statusHistory"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenService
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := testutil.NewDB(t)
	testutil.SeedCatalog(t, db)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	accounts := auth.NewAccounts(store.NewUsers(db), auth.NewPasswordHasher(bcrypt.MinCost), tokens)
	restaurants := store.NewRestaurants(db)
	destinations := store.NewDestinations(db)
	engine := statemachine.NewEngine(store.NewOrders(db), restaurants, destinations, log)

	router := routes.NewRouter(routes.Deps{
		Handler:  handlers.New(accounts, engine, restaurants, destinations, sqlDB, log),
		Verifier: tokens,
		Log:      log,
	})
	return &api{t: t, router: router, db: db, tokens: tokens}
}

// user creates an account directly and returns it with a bearer token
func (a *api) user(email string, role models.Role) (models.User, string) {
	a.t.Helper()
	u := testutil.CreateUser(a.t, a.db, email, role)
	token, err := a.tokens.Issue(&u)
	require.NoError(a.t, err)
	return u, token
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func data[T any](t *testing.T, env envelope, key string) T {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	var out T
	require.NoError(t, json.Unmarshal(fields[key], &out), string(fields[key]))
	return out
}

func orderPath(id uint) string {
	return "/api/orders/" + strconv.FormatUint(uint64(id), 10)
}

func acceptPath(driverID, orderID uint) string {
	return "/api/drivers/" + strconv.FormatUint(uint64(driverID), 10) + "/orders/" +
		strconv.FormatUint(uint64(orderID), 10) + "/accept"
}

var sandwiches = gin.H{
	"restaurantId":  1,
	"destinationId": 1,
	"orderItems":    []gin.H{{"foodId": 1, "quantity": 2}},
}

func TestRegisterLoginProfile(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/api/register", "", gin.H{
		"email": "jane@example.com", "password": "pa55word", "firstName": "Jane", "lastName": "Doe", "role": "customer",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "success", env.Status)
	assert.NotContains(t, string(env.Data), "passwordHash")
	assert.NotContains(t, string(env.Data), "pa55word")

	code, env = a.do(http.MethodPost, "/api/login", "", gin.H{"email": "jane@example.com", "password": "pa55word"})
	require.Equal(t, http.StatusOK, code)
	token := data[string](t, env, "token")
	user := data[map[string]any](t, env, "user")
	assert.Equal(t, "customer", user["role"])
	assert.Equal(t, "Jane", user["firstName"])

	code, env = a.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "jane@example.com", data[map[string]any](t, env, "user")["email"])
}

func TestRegisterFailures(t *testing.T) {
	a := newAPI(t)
	base := gin.H{"email": "x@example.com", "password": "pa55word", "firstName": "X", "lastName": "Y", "role": "driver"}

	code, _ := a.do(http.MethodPost, "/api/register", "", base)
	require.Equal(t, http.StatusCreated, code)

	code, env := a.do(http.MethodPost, "/api/register", "", base)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already registered", env.Message)

	code, env = a.do(http.MethodPost, "/api/register", "", gin.H{"email": "y@example.com", "password": "pa55word"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fail", env.Status)
	assert.Contains(t, env.Message, "Missing required fields")
	assert.Contains(t, env.Message, "firstName")

	admin := gin.H{"email": "z@example.com", "password": "pa55word", "firstName": "Z", "lastName": "Z", "role": "admin"}
	code, _ = a.do(http.MethodPost, "/api/register", "", admin)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodPost, "/api/login", "", gin.H{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestAuthHeaderHandling(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "fail", env.Status)

	code, _ = a.do(http.MethodGet, "/api/orders", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestDeliveryScenario(t *testing.T) {
	a := newAPI(t)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)
	d1User, d1 := a.user("d1@example.com", models.RoleDriver)
	d2User, d2 := a.user("d2@example.com", models.RoleDriver)

	code, env := a.do(http.MethodPost, "/api/orders", c1, sandwiches)
	require.Equal(t, http.StatusCreated, code, env.Message)
	order := data[orderJSON](t, env, "order")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.DriverID)
	assert.Equal(t, "11.98", order.Total)

	code, env = a.do(http.MethodGet, "/api/drivers/"+strconv.Itoa(int(d1User.ID))+"/orders/available", d1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]orderJSON](t, env, "orders"), 1)

	code, env = a.do(http.MethodGet, acceptPath(d1User.ID, order.ID), d1, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	claimed := data[[]orderJSON](t, env, "orders")
	require.Len(t, claimed, 1)
	assert.Equal(t, models.StatusAccepted, claimed[0].Status)
	require.NotNil(t, claimed[0].DriverID)
	assert.Equal(t, d1User.ID, *claimed[0].DriverID)

	code, env = a.do(http.MethodGet, acceptPath(d2User.ID, order.ID), d2, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "This order is not available to be claimed", env.Message)

	code, env = a.do(http.MethodPut, orderPath(order.ID), d1, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, code, env.Message)
	done := data[orderJSON](t, env, "order")
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Len(t, done.StatusHistory, 3)

	code, _ = a.do(http.MethodPut, orderPath(order.ID), c1, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(http.MethodGet, "/api/drivers/"+strconv.Itoa(int(d1User.ID))+"/orders/history", d1, nil)
	require.Equal(t, http.StatusOK, code)
	history := data[[]orderJSON](t, env, "orders")
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
}

func TestOrderVisibility(t *testing.T) {
	a := newAPI(t)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)
	_, c2 := a.user("c2@example.com", models.RoleCustomer)
	_, d1 := a.user("d1@example.com", models.RoleDriver)

	code, env := a.do(http.MethodPost, "/api/orders", c1, sandwiches)
	require.Equal(t, http.StatusCreated, code)
	order := data[orderJSON](t, env, "order")

	code, env = a.do(http.MethodGet, orderPath(order.ID), c1, nil)
	require.Equal(t, http.StatusOK, code)
	got := data[orderJSON](t, env, "order")
	require.Len(t, got.OrderItems, 1)
	assert.Equal(t, uint(1), got.OrderItems[0].FoodID)
	assert.Equal(t, 2, got.OrderItems[0].Quantity)

	for _, token := range []string{c2, d1} {
		code, _ = a.do(http.MethodGet, orderPath(order.ID), token, nil)
		assert.Equal(t, http.StatusForbidden, code)

		code, env = a.do(http.MethodGet, "/api/orders", token, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, data[[]orderJSON](t, env, "orders"))
	}

	code, env = a.do(http.MethodGet, "/api/orders", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]orderJSON](t, env, "orders"), 1)

	code, _ = a.do(http.MethodGet, orderPath(9999), c1, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodGet, "/api/orders/abc", c1, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPlaceOrderRejections(t *testing.T) {
	a := newAPI(t)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)
	_, d1 := a.user("d1@example.com", models.RoleDriver)

	code, env := a.do(http.MethodPost, "/api/orders", d1, sandwiches)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You are not authorized to place an order", env.Message)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing restaurant", gin.H{"destinationId": 1, "orderItems": []gin.H{{"foodId": 1, "quantity": 1}}}},
		{"missing items", gin.H{"restaurantId": 1, "destinationId": 1}},
		{"empty items", gin.H{"restaurantId": 1, "destinationId": 1, "orderItems": []gin.H{}}},
		{"item without quantity", gin.H{"restaurantId": 1, "destinationId": 1, "orderItems": []gin.H{{"foodId": 1}}}},
		{"negative quantity", gin.H{"restaurantId": 1, "destinationId": 1, "orderItems": []gin.H{{"foodId": 1, "quantity": -1}}}},
		{"food from another restaurant", gin.H{"restaurantId": 1, "destinationId": 1, "orderItems": []gin.H{{"foodId": 3, "quantity": 1}}}},
		{"unknown destination", gin.H{"restaurantId": 1, "destinationId": 9, "orderItems": []gin.H{{"foodId": 1, "quantity": 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := a.do(http.MethodPost, "/api/orders", c1, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestUpdateOrderRejections(t *testing.T) {
	a := newAPI(t)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)
	d1User, d1 := a.user("d1@example.com", models.RoleDriver)

	code, env := a.do(http.MethodPost, "/api/orders", c1, sandwiches)
	require.Equal(t, http.StatusCreated, code)
	order := data[orderJSON](t, env, "order")
	code, _ = a.do(http.MethodGet, acceptPath(d1User.ID, order.ID), d1, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPut, orderPath(order.ID), d1, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "status")

	code, _ = a.do(http.MethodPut, orderPath(order.ID), d1, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPut, orderPath(order.ID), d1, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(http.MethodPut, orderPath(9999), d1, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDriverRoutesRejections(t *testing.T) {
	a := newAPI(t)
	c1User, c1 := a.user("c1@example.com", models.RoleCustomer)
	d1User, d1 := a.user("d1@example.com", models.RoleDriver)
	d2User, _ := a.user("d2@example.com", models.RoleDriver)

	code, env := a.do(http.MethodPost, "/api/orders", c1, sandwiches)
	require.Equal(t, http.StatusCreated, code)
	order := data[orderJSON](t, env, "order")

	code, _ = a.do(http.MethodGet, "/api/drivers/"+strconv.Itoa(int(c1User.ID))+"/orders/available", c1, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodGet, acceptPath(c1User.ID, order.ID), c1, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// a driver cannot claim on behalf of another driver
	code, _ = a.do(http.MethodGet, acceptPath(d2User.ID, order.ID), d1, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = a.do(http.MethodGet, "/api/drivers/"+strconv.Itoa(int(d2User.ID))+"/orders/history", d1, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You are not authorized to view this driver's orders", env.Message)

	code, _ = a.do(http.MethodGet, acceptPath(d1User.ID, 9999), d1, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDestinations(t *testing.T) {
	a := newAPI(t)
	_, admin := a.user("admin@example.com", models.RoleAdmin)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)

	code, env := a.do(http.MethodGet, "/api/destinations", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]models.Destination](t, env, "destinations"), 1)

	code, env = a.do(http.MethodGet, "/api/destinations/1", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Location 1", data[models.Destination](t, env, "destination").Name)

	code, _ = a.do(http.MethodGet, "/api/destinations/42", c1, nil)
	assert.Equal(t, http.StatusNotFound, code)

	body := gin.H{"name": "Location 2", "address": "5678 Elm St"}
	code, _ = a.do(http.MethodPost, "/api/destinations", c1, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPost, "/api/destinations", admin, gin.H{"name": "No address"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = a.do(http.MethodPost, "/api/destinations", admin, body)
	require.Equal(t, http.StatusCreated, code)
	assert.NotZero(t, data[models.Destination](t, env, "destination").ID)
}

func TestRestaurants(t *testing.T) {
	a := newAPI(t)
	_, c1 := a.user("c1@example.com", models.RoleCustomer)

	code, env := a.do(http.MethodGet, "/api/restaurants", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]models.Restaurant](t, env, "restaurants"), 2)

	code, env = a.do(http.MethodGet, "/api/restaurants/1", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[models.Restaurant](t, env, "restaurant").Foods, 2)

	code, _ = a.do(http.MethodGet, "/api/restaurants/7", c1, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = a.do(http.MethodGet, "/api/restaurants/2/menu?category=Dinner", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]models.Food](t, env, "menu"), 1)

	code, env = a.do(http.MethodGet, "/api/restaurants/2/menu?category=Lunch", c1, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, data[[]models.Food](t, env, "menu"))
}

func TestPublicEndpoints(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/api/state-machine", "", nil)
	require.Equal(t, http.StatusOK, code)
	transitions := data[[]statemachine.Transition](t, env, "stateMachine")
	assert.Equal(t, statemachine.GetAllTransitions(), transitions)
	assert.Equal(t, []models.OrderStatus{models.StatusCompleted}, data[[]models.OrderStatus](t, env, "terminalStates"))

	code, env = a.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "fail", env.Status)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
