package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/globeguide/internal/logger"
)

// RequestLogger logs one line per request once the handler chain is done.
// Errors attached with c.Error are logged at error level.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		props := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}

		if err := c.Errors.Last(); err != nil {
			log.Error(err.Err, props)
			return
		}
		log.Info("request", props)
	}
}
