// README: Prediction handler; binds the flight payload and maps orchestrator outcomes to HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ontime/internal/modules/delay"
	"ontime/internal/types"
)

// Predictor is satisfied by *delay.Service.
type Predictor interface {
	Predict(ctx context.Context, req types.FlightRequest) (*delay.Outcome, error)
}

type PredictionHandler struct {
	delay Predictor
}

func NewPredictionHandler(svc Predictor) *PredictionHandler {
	return &PredictionHandler{delay: svc}
}

type predictReq struct {
	Companhia   string `json:"companhia" binding:"required"`
	Origem      string `json:"origem" binding:"required"`
	Destino     string `json:"destino" binding:"required"`
	DataPartida any    `json:"data_partida" binding:"required"`
}

var errBadDeparture = errors.New("data_partida must be an ISO-8601 datetime or a unix timestamp")

// Timestamps without an offset are read as UTC.
var departureLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Unix values at or above this are milliseconds.
const unixMillisThreshold = 2e10

func parseDeparture(v any) (time.Time, error) {
	switch v := v.(type) {
	case string:
		return parseDepartureString(v)
	case float64:
		return fromUnix(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, errBadDeparture
		}
		return fromUnix(f), nil
	default:
		return time.Time{}, errBadDeparture
	}
}

func parseDepartureString(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range departureLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return fromUnix(f), nil
	}
	return time.Time{}, errBadDeparture
}

func fromUnix(secs float64) time.Time {
	if math.Abs(secs) >= unixMillisThreshold {
		secs /= 1000
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	var req predictReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusUnprocessableEntity, "invalid request: "+err.Error())
		return
	}
	departure, err := parseDeparture(req.DataPartida)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	flight := types.NewFlightRequest(req.Companhia, req.Origem, req.Destino, departure)
	out, err := h.delay.Predict(c.Request.Context(), flight)
	if err != nil {
		writePredictionError(c, flight.Origin, err)
		return
	}
	writeJSON(c, http.StatusCreated, out.Response)
}
