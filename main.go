package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dress-orders-api/config"
	"github.com/kendall-kelly/dress-orders-api/controllers"
	"github.com/kendall-kelly/dress-orders-api/middleware"
	"github.com/kendall-kelly/dress-orders-api/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Dress Orders API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openOrderStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open order store: %v", err)
	}
	log.Printf("Order storage: %s", cfg.StorageDriver)

	sessions := services.NewSessionManager(cfg.AdminPassword, cfg.SessionTTL)
	orders := services.NewOrderService(store)

	configureGinMode(cfg)
	router := setupRouter(cfg, orders, sessions, middleware.NewHTTPMetrics())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	sessions.Clear()
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Failed to close order store: %v", err)
		}
	}
	log.Println("Server stopped")
}

// openOrderStore builds the order store selected by STORAGE_DRIVER
func openOrderStore(ctx context.Context, cfg *config.Config) (services.OrderStore, error) {
	switch cfg.StorageDriver {
	case config.StorageFile:
		return services.NewFileOrderStore(cfg.OrdersFile), nil
	case config.StorageDatabase:
		db, err := config.ConnectDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := services.NewDBOrderStore(db)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageS3:
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return services.NewS3OrderStore(s3Service, cfg.OrdersObjectKey), nil
	case config.StoragePebble:
		store, err := services.NewPebbleOrderStore(cfg.PebbleDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func configureGinMode(cfg *config.Config) {
	switch {
	case cfg.IsTest():
		gin.SetMode(gin.TestMode)
	case cfg.IsDevelopment() || cfg.LogLevel == "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
}

// setupRouter wires middleware and the /api/v1 routes
func setupRouter(cfg *config.Config, orders *services.OrderService, sessions *services.SessionManager, metrics *middleware.HTTPMetrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(metrics.Middleware())
	router.Use(middleware.ResolveAdmin(sessions))

	orderController := controllers.NewOrderController(orders)
	adminController := controllers.NewAdminController(sessions)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		v1.GET("/catalog", controllers.ListCatalog)
		v1.GET("/catalog/:id", controllers.GetCatalogItem)

		admin := v1.Group("/admin")
		{
			admin.POST("/login", adminController.Login)
			admin.POST("/logout", middleware.RequireAdmin(), adminController.Logout)
		}

		v1.POST("/orders", orderController.CreateOrder)
		v1.GET("/orders", orderController.ListOrders)
		v1.POST("/orders/:id/cancel", orderController.CancelOrder)
		v1.POST("/orders/:id/edit", orderController.EditOrder)
		v1.POST("/orders/:id/status", orderController.UpdateOrderStatus)
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.AdminTokenHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowsAllOrigins() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	}
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dress Orders API is running",
	})
}
