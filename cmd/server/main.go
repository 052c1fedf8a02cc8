// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vendorpulse/backend-go/internal/api"
	"github.com/vendorpulse/backend-go/internal/cache"
	"github.com/vendorpulse/backend-go/internal/config"
	"github.com/vendorpulse/backend-go/internal/repository/postgres"
	"github.com/vendorpulse/backend-go/internal/service"
	"github.com/vendorpulse/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	perfCache, err := cache.NewPerformanceCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Performance cache unavailable, continuing without it")
		perfCache = cache.NewNoopPerformanceCache()
	}

	vendorRepo := postgres.NewVendorRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)
	historyRepo := postgres.NewPerformanceHistoryRepository(db)

	perfService := service.NewPerformanceService(vendorRepo, poRepo, historyRepo, perfCache)
	vendorService := service.NewVendorService(vendorRepo, historyRepo, perfCache)
	poService := service.NewPurchaseOrderService(poRepo, vendorRepo, perfService)

	router := api.NewRouter(&api.Services{
		VendorService: vendorService,
		POService:     poService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
