// README: Prediction service maps a feature record to a label and the predicted class probability.
package prediction

import (
	"errors"

	"ontime/internal/modules/features"
)

var (
	ErrModelUnavailable = errors.New("model not loaded")
	ErrFeatureSchema    = errors.New("feature record does not match model schema")
)

type Label string

const (
	LabelDelayed Label = "delayed"
	LabelOnTime  Label = "on_time"
)

type Result struct {
	Label Label
	// Probability is the probability of Label, not of the delayed class.
	Probability float64
	// PositiveProbability is P(delayed), kept for logging.
	PositiveProbability float64
}

type Service struct {
	model *Model
}

// NewService wraps a loaded model. A nil model yields a service that answers
// every call with ErrModelUnavailable.
func NewService(model *Model) *Service {
	return &Service{model: model}
}

func (s *Service) Ready() bool {
	return s != nil && s.model != nil
}

func (s *Service) Model() *Model {
	return s.model
}

func (s *Service) Predict(r features.Record) (Result, error) {
	if !s.Ready() {
		return Result{}, ErrModelUnavailable
	}
	x, err := s.model.transform(r)
	if err != nil {
		return Result{}, err
	}
	p0, p1 := s.model.probabilities(x)

	// Argmax; ties go to delayed.
	if p1 >= p0 {
		return Result{Label: LabelDelayed, Probability: p1, PositiveProbability: p1}, nil
	}
	return Result{Label: LabelOnTime, Probability: p0, PositiveProbability: p1}, nil
}
