package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-delivery-broker/auth"
	"food-delivery-broker/config"
	"food-delivery-broker/handlers"
	"food-delivery-broker/routes"
	"food-delivery-broker/seed"
	"food-delivery-broker/statemachine"
	"food-delivery-broker/store"

	"github.com/gin-gonic/gin"
)

// @title Food Delivery Order Broker API
// @version 1.0
// @description Customers place orders, drivers claim and complete them.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	nrApp, err := config.NewRelicApp(cfg.NewRelic)
	if err != nil {
		log.Warn("failed to initialize New Relic", "err", err)
	} else if nrApp != nil {
		log.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		defer nrApp.Shutdown(5 * time.Second)
	}

	db, err := config.OpenDB(cfg.Database, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := config.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("connected to redis, idempotent order placement enabled")
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if cfg.Seed.OnStart {
		admin := seed.Admin{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
		if err := seed.Run(ctx, db, admin, hasher, log); err != nil {
			return err
		}
	}

	// Wire dependencies.
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := auth.NewAccounts(store.NewUsers(db), hasher, tokens)
	restaurants := store.NewRestaurants(db)
	destinations := store.NewDestinations(db)
	engine := statemachine.NewEngine(store.NewOrders(db), restaurants, destinations, log)

	router := routes.NewRouter(routes.Deps{
		Handler:        handlers.New(accounts, engine, restaurants, destinations, sqlDB, log),
		Verifier:       tokens,
		Redis:          redisClient,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		NewRelic:       nrApp,
		Log:            log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", "http://localhost:"+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server exited")
	return nil
}
