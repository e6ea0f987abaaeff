// README: Orchestrator stages, error classification and the wire response shape.
package delay

import (
	"fmt"

	"ontime/internal/modules/features"
	"ontime/internal/modules/prediction"
	"ontime/internal/modules/weather"
	"ontime/internal/types"
)

type Stage string

const (
	StageReceived            Stage = "received"
	StageCoordinatesResolved Stage = "coordinates_resolved"
	StageWeatherFetched      Stage = "weather_fetched"
	StageFeaturesBuilt       Stage = "features_built"
	StagePredicted           Stage = "predicted"
	StageResponded           Stage = "responded"
	StageErrored             Stage = "errored"
)

type Kind int

const (
	// KindClientInput is correctable by the caller (unknown airport).
	KindClientInput Kind = iota + 1
	// KindServerFault is a classified failure on our side (model unavailable, schema mismatch).
	KindServerFault
	// KindInternal is anything unclassified, including recovered panics.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client_input"
	case KindServerFault:
		return "server_fault"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the only error type Predict returns. Stage is the last stage reached.
type Error struct {
	Stage Stage
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	PrevisaoAtrasado = "Atrasado"
	PrevisaoPontual  = "Pontual"
)

// Response is the wire body of a successful prediction.
type Response struct {
	Previsao      string  `json:"previsao"`
	Probabilidade float64 `json:"probabilidade"`
}

func toResponse(r prediction.Result) Response {
	previsao := PrevisaoPontual
	if r.Label == prediction.LabelDelayed {
		previsao = PrevisaoAtrasado
	}
	return Response{Previsao: previsao, Probabilidade: r.Probability}
}

// Outcome records everything a successful request went through.
type Outcome struct {
	Request    types.FlightRequest
	Origin     types.Point
	Weather    weather.Result
	Features   features.Record
	Prediction prediction.Result
	Response   Response
	Stages     []Stage
}

func (o *Outcome) advance(s Stage) {
	o.Stages = append(o.Stages, s)
}

func (o *Outcome) last() Stage {
	return o.Stages[len(o.Stages)-1]
}
