package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staff-service/config"
	deliveryHttp "staff-service/internal/delivery/http"
	"staff-service/internal/delivery/http/handler"
	"staff-service/internal/delivery/http/middleware"
	domainRepo "staff-service/internal/domain/repository"
	"staff-service/internal/infrastructure/authclient"
	"staff-service/internal/infrastructure/cache"
	"staff-service/internal/infrastructure/database"
	"staff-service/internal/platform/metrics"
	"staff-service/internal/repository"
	"staff-service/internal/repository/memory"
	"staff-service/internal/service"
	"staff-service/internal/usecase"
	"staff-service/pkg/jwt"
	"staff-service/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// Stores bundles the repositories chosen by DB_DRIVER
type Stores struct {
	Doctors   domainRepo.DoctorRepository
	AuditLogs domainRepo.AuditLogRepository
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = SetupLogger(cfg.App)
	app.Log.Info("Configuration loaded successfully")

	stores, db, err := OpenStores(cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db

	// Initialize Redis
	doctorCache := service.NewNoopDoctorCache()
	switch {
	case cfg.Redis.Enabled:
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		doctorCache = service.NewRedisDoctorCache(redisClient, cfg.Redis.CacheTTL, app.Log)
		app.Log.Info("Redis connected successfully")
	case cfg.DB.Driver == config.DriverMemory:
		// Process-local store, so a process-local cache is safe.
		doctorCache = service.NewMemoryDoctorCache(cfg.Redis.CacheTTL)
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, app.Log, stores, doctorCache)

	return app, nil
}

// SetupLogger configures the standard logrus logger from cfg and returns it
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// OpenStores connects the repositories selected by cfg.DB.Driver. The returned
// *gorm.DB is nil for the memory driver.
func OpenStores(cfg *config.Config) (*Stores, *gorm.DB, error) {
	if cfg.DB.Driver == config.DriverMemory {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return &Stores{
			Doctors:   memory.NewDoctorRepository(),
			AuditLogs: memory.NewAuditLogRepository(),
		}, nil, nil
	}

	gormLevel := logger.Warn
	if cfg.App.IsDevelopment() {
		gormLevel = logger.Info
	}
	db, err := database.NewPostgresConnection(cfg.DB, gormLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logrus.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			closeDB(db)
			return nil, nil, err
		}
	}

	return &Stores{
		Doctors:   repository.NewDoctorRepository(db),
		AuditLogs: repository.NewAuditLogRepository(db),
	}, db, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, stores *Stores, doctorCache service.DoctorCache) *http.Server {
	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize auth service client
	authClient := authclient.NewClient(cfg.AuthSvc, appMetrics)

	// Initialize usecases
	auditService := service.NewAuditService(log, stores.AuditLogs)
	doctorUsecase := usecase.NewDoctorUsecase(log, stores.Doctors, authClient, doctorCache, auditService, customValidator, appMetrics)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, stores.AuditLogs, customValidator)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		cfg.App.APIPrefix,
		log,
		doctorHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		registry,
	)

	// Create server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	closeDB(app.DB)

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
