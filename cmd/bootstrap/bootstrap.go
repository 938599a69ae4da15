package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-telehealth/config"
	deliveryHttp "go-telehealth/internal/delivery/http"
	"go-telehealth/internal/delivery/http/handler"
	"go-telehealth/internal/delivery/http/middleware"
	"go-telehealth/internal/infrastructure/cache"
	"go-telehealth/internal/infrastructure/database"
	"go-telehealth/internal/repository"
	"go-telehealth/internal/service"
	"go-telehealth/internal/usecase"
	"go-telehealth/internal/worker"
	"go-telehealth/pkg/jwt"
	"go-telehealth/pkg/rabbitmq"
	"go-telehealth/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// reminderMarkerTTL outlives the reminder window so one lapse produces one event.
const reminderMarkerTTL = 48 * time.Hour

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   rabbitmq.Publisher
	Scheduler   *worker.Scheduler
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(cfg.DB); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize event publisher; the service keeps running without a broker
	log := logrus.StandardLogger()
	producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		logrus.Warnf("RabbitMQ unavailable, events will only be logged: %v", err)
		app.Publisher = &rabbitmq.EventProducerFallback{Log: log}
	} else {
		app.Publisher = producer
	}

	// Initialize all layers
	app.Server, app.Scheduler, err = initialize(cfg, log, db, redisClient, app.Publisher)
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initialize wires repositories, services, usecases and delivery into a server and scheduler
func initialize(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client, publisher rabbitmq.Publisher) (*http.Server, *worker.Scheduler, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	transactor := database.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	doctorProfileRepo := repository.NewDoctorProfileRepository(db)
	patientProfileRepo := repository.NewPatientProfileRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(redisClient)
	payLocker := service.NewRedisPaymentLocker(redisClient, cfg.Payment.LockTTL, log)
	reminderMarker := service.NewRedisReminderMarker(redisClient, reminderMarkerTTL)
	ids := service.NewIdentifierGenerator()

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, transactor, userRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, tokenStore)
	profileUsecase := usecase.NewProfileUsecase(log, transactor, userRepo, doctorProfileRepo, patientProfileRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorProfileRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, transactor, appointmentRepo, transactionRepo, userRepo,
		auditService, payLocker, ids, publisher, cfg.Meeting.BaseURL)
	transactionUsecase := usecase.NewTransactionUsecase(log, transactionRepo, appointmentRepo)
	subscriptionUsecase := usecase.NewSubscriptionUsecase(log, transactor, subscriptionRepo, userRepo, auditService,
		publisher, cfg.Subscription.Period)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	profileHandler := handler.NewProfileHandler(profileUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	transactionHandler := handler.NewTransactionHandler(transactionUsecase)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, customValidator)
	subscriptionMiddleware := middleware.NewSubscriptionMiddleware(subscriptionUsecase, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		profileHandler,
		doctorHandler,
		appointmentHandler,
		transactionHandler,
		subscriptionHandler,
		authMiddleware,
		subscriptionMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Initialize background jobs
	reminder := worker.NewSubscriptionReminder(log, subscriptionRepo, reminderMarker, publisher, cfg.Subscription.ReminderWindow)
	scheduler, err := newScheduler(log, cfg.Subscription.ReminderSchedule, reminder)
	if err != nil {
		return nil, nil, err
	}

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server, scheduler, nil
}

// newScheduler registers job on schedule; an invalid schedule fails startup.
func newScheduler(log *logrus.Logger, schedule string, job worker.Job) (*worker.Scheduler, error) {
	scheduler := worker.NewScheduler(log)
	if err := scheduler.Register(schedule, job); err != nil {
		return nil, fmt.Errorf("failed to schedule %s job: %w", job.Name(), err)
	}
	return scheduler, nil
}

// Run starts the HTTP server and background jobs, and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

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

	// Let a running reminder pass finish
	select {
	case <-app.Scheduler.Stop().Done():
	case <-ctx.Done():
		logrus.Warn("Scheduler did not stop before the shutdown deadline")
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (broker, database, redis)
func (app *App) Close() {
	if app.Publisher != nil {
		app.Publisher.Close()
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
