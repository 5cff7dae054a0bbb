package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/simaogato/cashil-backend/internal/logger"
)

// RouterConfig holds the HTTP surface settings
type RouterConfig struct {
	Mode        string
	CORSOrigins []string
}

// NewRouter configures the gin engine and every route
// live may be nil when live invalidation is disabled.
func NewRouter(cfg RouterConfig, h *TransactionHandler, live gin.HandlerFunc, log zerolog.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	{
		api.GET("/transactions", h.List)
		api.POST("/transactions", h.Create)
		api.GET("/transactions/:id", h.Get)
		api.PUT("/transactions/:id", h.Update)
		api.DELETE("/transactions/:id", h.Delete)

		api.GET("/summary", h.Summary)
		api.GET("/export.xlsx", h.Export)

		if live != nil {
			api.GET("/live", live)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
