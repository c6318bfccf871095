package api

import (
	"time"

	"fdrtidy/internal"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the JSON API engine. Routes live under /api.
func NewRouter(results *ResultsHandler, logger *internal.Logger) *gin.Engine {
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	results.RegisterRoutes(router.Group("/api"))
	return router
}

func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[API] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
