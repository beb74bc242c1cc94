package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/drivent/booking-backend/internal/config"
	"github.com/drivent/booking-backend/internal/handlers"
	"github.com/drivent/booking-backend/internal/middleware"
	"github.com/drivent/booking-backend/internal/utils"
	"github.com/drivent/booking-backend/pkg/jwt"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type routerDeps struct {
	cfg            *config.Config
	logger         *logrus.Logger
	db             pinger
	jwtService     *jwt.Service
	sessions       middleware.SessionChecker
	bookingHandler *handlers.BookingHandler
	authHandler    *handlers.AuthHandler
}

func setupRouter(deps routerDeps) *gin.Engine {
	cfg := deps.cfg

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(requestLogger(deps.logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  cfg.CORS.AllowedMethods,
		AllowHeaders:  cfg.CORS.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	router.GET("/health", healthCheckHandler(deps.db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/sign-in", deps.authHandler.SignIn)
	}

	booking := router.Group("/booking")
	booking.Use(middleware.AuthMiddleware(deps.jwtService, deps.sessions))
	{
		booking.GET("", deps.bookingHandler.FindBooking)
		booking.POST("", deps.bookingHandler.CreateBooking)
		booking.PUT("", deps.bookingHandler.UpdateBooking)
		booking.PUT("/:bookingId", deps.bookingHandler.UpdateBooking)
	}

	return router
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		device := utils.ParseUserAgent(c.Request.UserAgent())
		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"method":      c.Request.Method,
			"path":        path,
			"query":       c.Request.URL.RawQuery,
			"ip":          c.ClientIP(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"request_id":  middleware.GetRequestID(c),
			"device_type": device.DeviceType,
			"platform":    device.Platform,
			"browser":     device.Browser,
			"has_auth":    c.GetHeader("Authorization") != "",
		}
		if device.IsBot {
			fields["is_bot"] = true
		}
		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
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
