// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ontime/internal/http/handlers"
	"ontime/internal/http/middleware"
)

func NewRouter(prediction *handlers.PredictionHandler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(cors.New(corsConfig(origins)))

	r.POST("/api/predict", prediction.Predict)
	r.POST("/api/predict/", prediction.Predict)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
