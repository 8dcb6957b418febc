package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opd-booking/config"
	deliveryHttp "opd-booking/internal/delivery/http"
	"opd-booking/internal/delivery/http/handler"
	"opd-booking/internal/delivery/http/middleware"
	"opd-booking/internal/infrastructure/cache"
	"opd-booking/internal/infrastructure/database"
	"opd-booking/internal/repository"
	"opd-booking/internal/service"
	"opd-booking/internal/usecase"
	"opd-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	SlotLocks   *service.SlotLockService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Bring the schema up to date before any layer touches it
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	logrus.Info("Database schema migrated successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	log := logrus.StandardLogger()

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()

	// Initialize services
	app.SlotLocks = service.NewSlotLockService(log)
	mirror := service.NewLedgerMirror(app.DB, app.RedisClient, log)
	paymentVerifier := service.NewPaymentVerifier(app.Config.Payment)

	var smsSender service.SMSSender
	if app.Config.SMS.APIURL != "" {
		smsSender = service.NewHTTPSMSSender(app.Config.SMS, log)
	}

	// Warm the availability fast path before accepting traffic. The mirror is
	// advisory, so a failed sync only costs extra database counts.
	syncCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := mirror.SyncOnStartup(syncCtx); err != nil {
		log.Warnf("Appointment count mirror sync failed, falling back to database counts: %+v", err)
		mirror = nil
	}

	// Initialize usecases
	bookingUsecase := usecase.NewAppointmentBookingUsecase(app.DB, log, doctorRepo, appointmentRepo, app.SlotLocks, mirror, paymentVerifier, smsSender)
	queryUsecase := usecase.NewAppointmentQueryUsecase(app.DB, log, appointmentRepo, prescriptionRepo)
	directoryUsecase := usecase.NewDoctorDirectoryUsecase(app.DB, log, doctorRepo)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(app.DB, log, appointmentRepo, prescriptionRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, queryUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(directoryUsecase)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, doctorHandler, prescriptionHandler, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", app.Config.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
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

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Stop the slot lock sweeper
	if app.SlotLocks != nil {
		app.SlotLocks.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
