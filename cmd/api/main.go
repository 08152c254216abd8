package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/juju/loggo/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-retail-store/internal/access"
	"go-retail-store/internal/config"
	"go-retail-store/internal/handler"
	"go-retail-store/internal/metrics"
	"go-retail-store/internal/middleware"
	"go-retail-store/internal/repository"
	"go-retail-store/internal/service"
	"go-retail-store/internal/ws"
	"go-retail-store/pkg/database"
	"go-retail-store/pkg/tracing"
)

var logger = loggo.GetLogger("retail.api")

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Criticalf("loading config: %v", err)
		os.Exit(1)
	}
	if err := loggo.ConfigureLoggers(cfg.LogConfig); err != nil {
		logger.Warningf("invalid LOG_CONFIG %q: %v", cfg.LogConfig, err)
	}
	if cfg.JWTSecret == "" {
		logger.Warningf("JWT_SECRET not set, using the development secret")
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		logger.Criticalf("starting tracing: %v", err)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Criticalf("connecting database: %v", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Criticalf("migrating database: %v", err)
		os.Exit(1)
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Criticalf("connecting redis: %v", err)
		os.Exit(1)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	registry.MustRegister(
		collector,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 4. Dependency Injection (Wiring Layers)
	policy := access.DefaultPolicy()

	productRepo := repository.NewProductRepo(db)
	moveRepo := repository.NewMovementRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	employeeRepo := repository.NewEmployeeRepo(db)
	userRepo := repository.NewUserRepo(db)
	groupRepo := repository.NewGroupRepo(db)

	stock := service.NewStockKeeper(productRepo, moveRepo)
	catalogService := service.NewCatalogService(db, productRepo, moveRepo, stock, policy, collector, wsHub)
	salesService := service.NewSalesService(db, saleRepo, customerRepo, employeeRepo, stock, policy, collector, wsHub)
	peopleService := service.NewPeopleService(customerRepo, employeeRepo, policy)
	projectionService := service.NewProjectionService(productRepo, policy)
	dashService := service.NewDashboardService(moveRepo, saleRepo, policy)
	userService := service.NewUserService(userRepo, groupRepo, policy)
	authService := service.NewAuthService(userRepo, policy, wsHub, service.AuthOptions{
		TokenTTL:    cfg.TokenTTL,
		IdleTimeout: cfg.SessionIdleTimeout,
	})

	// 5. Seed account groups and the manager account
	if err := userService.SeedAdmin(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		logger.Criticalf("seeding accounts: %v", err)
		os.Exit(1)
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Retail Store API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	// 7. Routes
	var loginLimiter fiber.Handler
	if rdb != nil {
		loginLimiter = middleware.RateLimit(rdb, "login", cfg.LoginRateLimit, cfg.RateLimitWindow)
	}
	handler.Register(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Catalog:   handler.NewCatalogHandler(catalogService, projectionService),
		Sales:     handler.NewSalesHandler(salesService),
		People:    handler.NewPeopleHandler(peopleService),
		Users:     handler.NewUserHandler(userService, policy),
		Dashboard: handler.NewDashboardHandler(dashService),
	}, policy, authService, loginLimiter)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Criticalf("server stopped: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Errorf("flushing traces: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Infof("server exited")
}
