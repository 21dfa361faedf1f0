package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/seat-booking-backend/internal/cache"
	"github.com/smarttransit/seat-booking-backend/internal/config"
	"github.com/smarttransit/seat-booking-backend/internal/database"
	"github.com/smarttransit/seat-booking-backend/internal/handlers"
	"github.com/smarttransit/seat-booking-backend/internal/memstore"
	"github.com/smarttransit/seat-booking-backend/internal/middleware"
	"github.com/smarttransit/seat-booking-backend/internal/services"
	"github.com/smarttransit/seat-booking-backend/pkg/events"
	"github.com/smarttransit/seat-booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartTransit Seat Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	store, adminUsers, closeStore := openStore(cfg, logger)
	defer closeStore()

	scheduleCache := openScheduleCache(cfg, logger)
	publisher := openPublisher(cfg, logger)
	defer publisher.Close()

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	allocationService := services.NewAllocationService(store, publisher, logger)
	fleetService := services.NewFleetService(store, scheduleCache, logger)
	queryService := services.NewQueryService(store, scheduleCache, logger)
	adminAuthService := services.NewAdminAuthService(adminUsers, jwtService, cfg.Security.BcryptCost, logger)

	if cfg.Security.AdminUsername != "" {
		created, err := adminAuthService.EnsureAdmin(context.Background(), cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			logger.Fatalf("Failed to bootstrap admin user: %v", err)
		}
		if created {
			logger.WithField("username", cfg.Security.AdminUsername).Info("Bootstrap admin user created")
		}
	} else if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("No ADMIN_USERNAME set; admin routes will be unusable with the memory driver")
	}
	logger.Info("Services initialized")

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Operational endpoints
	router.GET("/health", healthCheckHandler(store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(router.Group("/api"), &handlers.Handlers{
		Auth:      handlers.NewAdminAuthHandler(adminAuthService, logger),
		Admin:     handlers.NewAdminHandler(fleetService, logger),
		Bookings:  handlers.NewBookingHandler(allocationService, logger),
		Buses:     handlers.NewBusHandler(fleetService, queryService, logger),
		Schedules: handlers.NewScheduleHandler(fleetService, queryService, logger),
		Seats:     handlers.NewSeatHandler(allocationService, logger),
	}, middleware.AuthMiddleware(jwtService, logger))

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// openStore connects the configured storage driver
func openStore(cfg *config.Config, logger *logrus.Logger) (database.Store, database.AdminUserStore, func()) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; all data is lost on restart")
		return memstore.New(), memstore.NewAdminUsers(), func() {}
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}
	return database.NewPostgresStore(db.DB), database.NewAdminUserRepository(db), closeDB
}

// openScheduleCache connects Redis when configured. Failures disable the cache.
func openScheduleCache(cfg *config.Config, logger *logrus.Logger) cache.ScheduleCache {
	if cfg.Redis.Addr == "" {
		logger.Info("Schedule cache disabled")
		return cache.NoopScheduleCache{}
	}

	client, err := cache.NewRedisClient(cache.Config{
		Address:  cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, schedule cache disabled")
		return cache.NoopScheduleCache{}
	}

	logger.WithField("addr", cfg.Redis.Addr).Info("Schedule cache enabled")
	return cache.NewRedisScheduleCache(client, cfg.Redis.ScheduleTTL)
}

// openPublisher connects the Kafka producer when brokers are configured
func openPublisher(cfg *config.Config, logger *logrus.Logger) events.Publisher {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("Booking events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(events.DefaultKafkaConfig(cfg.Kafka.Brokers, cfg.Kafka.BookingTopic))
	if err != nil {
		logger.WithError(err).Warn("Kafka unavailable, booking events disabled")
		return events.NoopPublisher{}
	}

	logger.WithFields(logrus.Fields{
		"brokers": cfg.Kafka.Brokers,
		"topic":   cfg.Kafka.BookingTopic,
	}).Info("Booking events enabled")
	return publisher
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
