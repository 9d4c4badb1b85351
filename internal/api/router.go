package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/service"
	"github.com/xenzys-api/internal/storage"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store storage.ObjectStorage, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	videoHandler := NewVideoHandler(services, log)
	uploadHandler := NewUploadHandler(services, cfg, log)
	mediaHandler := NewMediaHandler(store, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Playback
	router.GET("/media/:filename", mediaHandler.Serve)

	// API
	api := router.Group("/api")
	{
		api.GET("/test", testHandler)
		api.GET("/files", mediaHandler.List)

		api.GET("/videos", videoHandler.List)
		api.GET("/videos/:id", videoHandler.Get)
		api.POST("/videos/:id/like", videoHandler.Like)
		api.POST("/videos/:id/dislike", videoHandler.Dislike)
		api.POST("/videos/:id/view", videoHandler.View)
		api.POST("/videos/:id/comment", videoHandler.AddComment)

		api.POST("/upload", uploadHandler.Upload)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "xenzys-api",
	})
}

// testHandler is the liveness probe the web client polls
func testHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Server is running",
	})
}

// metricsHandler returns record counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		total, _ := services.Video.GetCount(ctx, "")
		videos, _ := services.Video.GetCount(ctx, "video")
		shorts, _ := services.Video.GetCount(ctx, "short")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"total":  total,
				"videos": videos,
				"shorts": shorts,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware tags every request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
