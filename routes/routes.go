package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "food-delivery-broker/docs"
	"food-delivery-broker/handlers"
	"food-delivery-broker/httpx"
	"food-delivery-broker/middleware"
	"food-delivery-broker/models"
	"food-delivery-broker/policy"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps is everything the router needs. Redis and NewRelic are optional.
type Deps struct {
	Handler        *handlers.Handler
	Verifier       middleware.Verifier
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	NewRelic       *newrelic.Application
	Log            *slog.Logger
}

// NewRouter builds the engine with the global middleware chain and all routes
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	httpx.UseJSONFieldNames()

	r := gin.New()
	r.Use(middleware.RequestID())
	if d.NewRelic != nil {
		r.Use(nrgin.Middleware(d.NewRelic))
	}
	r.Use(middleware.Logger(d.Log), middleware.Recovery(d.Log), middleware.CORS())

	r.GET("/health", d.Handler.Health)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Food Delivery Order Broker API",
			"docs":    "/swagger/index.html",
			"health":  "/health",
			"roles":   []models.Role{models.RoleCustomer, models.RoleDriver, models.RoleAdmin},
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		httpx.Fail(c, http.StatusNotFound, "Resource not found")
	})

	SetupRoutes(r, d)
	return r
}

func SetupRoutes(r *gin.Engine, d Deps) {
	h := d.Handler

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/login", h.Login)
		public.POST("/register", h.Register)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(d.Verifier))
	{
		api.GET("/profile", h.GetProfile)

		api.GET("/restaurants", h.ListRestaurants)
		api.GET("/restaurants/:id", h.GetRestaurant)
		api.GET("/restaurants/:id/menu", h.GetMenu)

		api.GET("/destinations", h.ListDestinations)
		api.GET("/destinations/:id", h.GetDestination)
		api.POST("/destinations", middleware.Authorize(policy.CreateDestination), h.CreateDestination)
	}

	// ── Order routes ───────────────────────────────────────────────
	orders := api.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("",
			middleware.Authorize(policy.PlaceOrder),
			middleware.Idempotency(d.Redis, d.IdempotencyTTL, d.Log),
			h.PlaceOrder,
		)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
	}

	// ── Driver routes ──────────────────────────────────────────────
	drivers := api.Group("/drivers/:id/orders")
	drivers.Use(middleware.Authorize(policy.ListAvailableOrders))
	{
		drivers.GET("/available", h.GetAvailableOrders)
		drivers.GET("/history", h.GetDriverHistory)
		drivers.GET("/:orderId/accept", h.AcceptOrder)
	}
}
