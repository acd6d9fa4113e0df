// Package api wires the HTTP routes and middleware of the webutils server.
package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oszuidwest/zwfm-webutils/internal/api/handlers"
	"github.com/oszuidwest/zwfm-webutils/internal/archive"
	"github.com/oszuidwest/zwfm-webutils/internal/config"
	"github.com/oszuidwest/zwfm-webutils/internal/storage"
	"github.com/oszuidwest/zwfm-webutils/internal/utils"
	"github.com/oszuidwest/zwfm-webutils/pkg/logger"
)

// traceHeader carries the request trace ID in both directions.
const traceHeader = "X-Request-ID"

// SetupRouter configures and returns the main API router with all routes and middleware.
func SetupRouter(cfg *config.Config, store *storage.Storage) *gin.Engine {
	utils.InitializeValidators()

	h := handlers.NewHandlers(cfg, store, archive.NewService(store))

	// Set Gin mode based on environment
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.Recovery())
	r.Use(traceMiddleware())
	r.Use(requestLogger())
	r.Use(corsMiddleware(cfg))

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.Health)

		// Stored files
		v1.POST("/files", h.UploadFile)
		v1.GET("/files/*path", h.DownloadFile)
		v1.POST("/files/rename", h.RenameFiles)
		v1.POST("/files/delete", h.DeleteFiles)
		v1.POST("/files/dummies", h.CreateDummyFiles)

		// Archives
		v1.POST("/archives", h.CreateArchive)
		v1.POST("/archives/protect", h.ProtectArchive)

		// JSON documents
		v1.POST("/json/inject", h.InjectJSON)
		v1.POST("/json/append", h.AppendJSON)

		// Text
		v1.POST("/text/replace", h.ReplaceText)
	}

	return r
}

// traceMiddleware stores a trace ID on the context, reusing the caller's X-Request-ID.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(traceHeader))
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}
		c.Set(utils.TraceIDKey, traceID)
		c.Header(traceHeader, traceID)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s trace=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), utils.TraceID(c))
	}
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// If no allowed origins are configured, disable CORS (secure by default)
		if cfg.Server.AllowedOrigins == "" {
			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(204)
				return
			}
			c.Next()
			return
		}

		if isAllowedOrigin(origin, cfg.Server.AllowedOrigins) {
			// Delete any existing CORS headers that might be set by proxies
			c.Writer.Header().Del("Access-Control-Allow-Origin")
			c.Writer.Header().Del("Access-Control-Allow-Headers")
			c.Writer.Header().Del("Access-Control-Allow-Methods")
			c.Writer.Header().Del("Access-Control-Expose-Headers")

			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, "+traceHeader)
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Location, "+traceHeader)
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the comma-separated list of allowed origins
func isAllowedOrigin(origin string, allowedOrigins string) bool {
	if origin == "" {
		return false
	}

	for _, allowed := range strings.Split(allowedOrigins, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	return false
}
