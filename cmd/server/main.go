package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	workflowapp "github.com/elints/backend/internal/application/workflow"
	workforceapp "github.com/elints/backend/internal/application/workforce"
	"github.com/elints/backend/internal/infrastructure/auth"
	"github.com/elints/backend/internal/infrastructure/cache"
	"github.com/elints/backend/internal/infrastructure/config"
	"github.com/elints/backend/internal/infrastructure/logger"
	"github.com/elints/backend/internal/infrastructure/persistence"
	"github.com/elints/backend/internal/interfaces/http/handler"
	"github.com/elints/backend/internal/interfaces/http/middleware"
	"github.com/elints/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Elints Order Management API
//	@version		1.0
//	@description	Order workflow, job-number assignment and employee work tracking backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting order management backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	stepProvider := persistence.NewGormStepProvider(db.DB)
	sequencer := persistence.NewGormSequencer(db.DB)

	// Flow counts cache (redis, memory or none, per config)
	cacheFactory := cache.NewFlowCountsCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log))
	flowCountsCache, err := cacheFactory.Create()
	if err != nil {
		log.Fatal("Failed to initialize flow counts cache", zap.Error(err))
	}

	// Initialize application services
	orderService := workflowapp.NewOrderService(orderRepo)
	assignmentService := workflowapp.NewAssignmentService(orderRepo, mappingRepo, sequencer)
	summaryService := workflowapp.NewSummaryService(orderRepo, flowCountsCache)
	ledgerService := workforceapp.NewLedgerService(ledgerRepo, orderRepo, mappingRepo, stepProvider)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderService, summaryService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	dashboardHandler := handler.NewDashboardHandler(summaryService, sequencer)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Order workflow routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)
	orderRoutes.PUT("/:id/account-employee", orderHandler.AssignAccountEmployee)
	orderRoutes.DELETE("/:id", middleware.RequireRole(middleware.RoleAdmin), orderHandler.Delete)
	// Job-number assignment, scoped to one order
	orderRoutes.POST("/:id/assignments", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAccountsTeam), assignmentHandler.Assign)
	orderRoutes.POST("/:id/assignments/generate", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAccountsTeam), assignmentHandler.Generate)
	orderRoutes.GET("/:id/mappings", assignmentHandler.OrderMappings)
	r.Register(orderRoutes)

	// Cross-order assignment views
	assignmentRoutes := router.NewDomainGroup("assignments", "/assignments")
	assignmentRoutes.GET("", assignmentHandler.AllGrouped)
	r.Register(assignmentRoutes)

	employeeRoutes := router.NewDomainGroup("employees", "/employees")
	employeeRoutes.GET("/:id/work", assignmentHandler.EmployeeWork)
	r.Register(employeeRoutes)

	// Per-employee work ledger, keyed by the authenticated user
	workRoutes := router.NewDomainGroup("work", "/work")
	workRoutes.POST("/track", ledgerHandler.TrackItem)
	workRoutes.POST("/complete", ledgerHandler.CompleteSubStep)
	workRoutes.GET("/statistics", ledgerHandler.Statistics)
	workRoutes.GET("/tree", ledgerHandler.WorkTree)
	workRoutes.POST("/items/:itemId/start", assignmentHandler.StartItem)
	workRoutes.PATCH("/items/:itemId/progress", assignmentHandler.UpdateItemProgress)
	r.Register(workRoutes)

	// Dashboard projections
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/orders-summary", dashboardHandler.OrdersSummary)
	dashboardRoutes.GET("/employee-stats/:id", dashboardHandler.EmployeeStats)
	dashboardRoutes.GET("/flow-counts", dashboardHandler.FlowCounts)
	r.Register(dashboardRoutes)

	// Invoice numbering
	invoiceRoutes := router.NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.POST("/next-number", middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAccountsTeam), dashboardHandler.NextInvoiceNumber)
	r.Register(invoiceRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
