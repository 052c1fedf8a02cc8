// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vendorpulse/backend-go/internal/api/handlers"
	"github.com/vendorpulse/backend-go/internal/api/middleware"
	"github.com/vendorpulse/backend-go/internal/service"
)

type Services struct {
	VendorService *service.VendorService
	POService     *service.PurchaseOrderService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.VendorService != nil {
			vendorHandler := handlers.NewVendorHandler(services.VendorService)
			vendorGroup := apiGroup.Group("/vendors")
			{
				vendorGroup.POST("", vendorHandler.CreateVendor)
				vendorGroup.GET("", vendorHandler.ListVendors)
				vendorGroup.GET("/:code", vendorHandler.GetVendor)
				vendorGroup.PUT("/:code", vendorHandler.UpdateVendor)
				vendorGroup.DELETE("/:code", vendorHandler.DeleteVendor)
				vendorGroup.GET("/:code/performance", vendorHandler.GetPerformance)
				vendorGroup.GET("/:code/history", vendorHandler.GetHistory)
			}
		}

		if services.POService != nil {
			poHandler := handlers.NewPOHandler(services.POService)
			poGroup := apiGroup.Group("/purchase_orders")
			{
				poGroup.POST("", poHandler.CreatePO)
				poGroup.GET("", poHandler.ListPOs)
				poGroup.GET("/:po_number", poHandler.GetPO)
				poGroup.PUT("/:po_number", poHandler.UpdatePO)
				poGroup.DELETE("/:po_number", poHandler.DeletePO)
				poGroup.POST("/:po_number/transition", poHandler.Transition)
				poGroup.POST("/:po_number/acknowledge", poHandler.Acknowledge)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
