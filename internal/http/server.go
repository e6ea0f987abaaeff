// README: API gateway; owns the gin engine and delegates predictions to the delay service.
package http

import (
	"net/http"

	"ontime/internal/http/handlers"
)

type ServerDeps struct {
	Delay       handlers.Predictor
	CORSOrigins []string
}

type Server struct {
	delay       handlers.Predictor
	corsOrigins []string
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		delay:       deps.Delay,
		corsOrigins: deps.CORSOrigins,
	}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(handlers.NewPredictionHandler(s.delay), s.corsOrigins)
}
