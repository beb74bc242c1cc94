package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/config"
	"github.com/drivent/booking-backend/internal/database"
	"github.com/drivent/booking-backend/internal/events"
	"github.com/drivent/booking-backend/internal/handlers"
	"github.com/drivent/booking-backend/internal/locks"
	"github.com/drivent/booking-backend/internal/services"
	"github.com/drivent/booking-backend/pkg/jwt"
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

	logger.Info("Starting Drivent booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	// Middleware logs through the package-level logger.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	var locker services.RoomLocker
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatalf("Invalid REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("Redis unavailable, room locks disabled: %v", err)
		} else {
			locker = locks.NewRoomLocker(redisClient, cfg.Redis.RoomLockTTL)
			logger.Info("Room locks enabled")
		}
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.Warnf("RabbitMQ unavailable, booking events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
			logger.Infof("Publishing booking events to exchange %q", cfg.RabbitMQ.Exchange)
		}
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	sessionRepository := database.NewSessionRepository(db)

	bookingService := services.NewBookingService(
		database.NewBookingRepository(db),
		database.NewRoomRepository(db),
		database.NewEnrollmentRepository(db),
		database.NewTicketRepository(db),
		locker,
		publisher,
		logger,
	)
	authService := services.NewAuthService(
		database.NewUserRepository(db),
		sessionRepository,
		jwtService,
		logger,
	)

	router := setupRouter(routerDeps{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		jwtService:     jwtService,
		sessions:       sessionRepository,
		bookingHandler: handlers.NewBookingHandler(bookingService, logger),
		authHandler:    handlers.NewAuthHandler(authService, logger),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}
