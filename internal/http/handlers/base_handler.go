// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ontime/internal/modules/delay"
)

const internalDetail = "Erro interno do servidor."

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Detail: msg})
}

// writePredictionError never exposes the wrapped cause of a server-side failure.
func writePredictionError(c *gin.Context, origin string, err error) {
	var e *delay.Error
	if !errors.As(err, &e) {
		writeError(c, http.StatusInternalServerError, internalDetail)
		return
	}
	switch e.Kind {
	case delay.KindClientInput:
		writeError(c, http.StatusNotFound, fmt.Sprintf("Coordenadas do aeroporto %s não encontradas.", origin))
	default:
		writeError(c, http.StatusInternalServerError, internalDetail)
	}
}
