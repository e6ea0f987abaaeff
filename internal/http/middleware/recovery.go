// README: Recovery middleware; a panic escaping a handler becomes a 500 with a JSON detail.
package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("handler panicked",
					"request_id", RequestID(c), "path", c.Request.URL.Path,
					"panic", r, "stack", string(debug.Stack()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Erro interno do servidor."})
			}
		}()
		c.Next()
	}
}
