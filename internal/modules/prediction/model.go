// README: Trained artifact: one-hot/passthrough feature transform, logistic classifier and threshold.
package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"ontime/internal/modules/features"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// CategoricalColumn is one-hot encoded over Categories; unseen values encode as all zeros.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Artifact is the on-disk model format.
type Artifact struct {
	Version      string              `json:"version"`
	Categorical  []CategoricalColumn `json:"categorical"`
	Numeric      []string            `json:"numeric"`
	Coefficients []float64           `json:"coefficients"`
	Intercept    float64             `json:"intercept"`
	Threshold    float64             `json:"threshold"`
}

type Model struct {
	artifact Artifact
	index    []map[string]int
	width    int
}

func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact %s: %w", path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}
	return NewModel(a)
}

func NewModel(a Artifact) (*Model, error) {
	if len(a.Categorical)+len(a.Numeric) == 0 {
		return nil, fmt.Errorf("%w: no input columns", ErrInvalidArtifact)
	}
	if a.Threshold < 0 || a.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidArtifact, a.Threshold)
	}

	m := &Model{artifact: a, index: make([]map[string]int, len(a.Categorical))}
	seen := make(map[string]bool)
	for i, col := range a.Categorical {
		if col.Name == "" || seen[col.Name] {
			return nil, fmt.Errorf("%w: bad categorical column %q", ErrInvalidArtifact, col.Name)
		}
		seen[col.Name] = true
		m.index[i] = make(map[string]int, len(col.Categories))
		for j, c := range col.Categories {
			m.index[i][c] = m.width + j
		}
		m.width += len(col.Categories)
	}
	for _, name := range a.Numeric {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("%w: bad numeric column %q", ErrInvalidArtifact, name)
		}
		seen[name] = true
	}
	m.width += len(a.Numeric)

	if len(a.Coefficients) != m.width {
		return nil, fmt.Errorf("%w: %d coefficients for %d transformed columns", ErrInvalidArtifact, len(a.Coefficients), m.width)
	}
	return m, nil
}

func (m *Model) Version() string    { return m.artifact.Version }
func (m *Model) Threshold() float64 { return m.artifact.Threshold }

// transform turns a record into the classifier's dense input vector.
func (m *Model) transform(r features.Record) ([]float64, error) {
	x := make([]float64, m.width)
	for i, col := range m.artifact.Categorical {
		v, ok := r[col.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrFeatureSchema, col.Name)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a string, got %T", ErrFeatureSchema, col.Name, v)
		}
		if pos, known := m.index[i][s]; known {
			x[pos] = 1
		}
	}
	offset := m.width - len(m.artifact.Numeric)
	for i, name := range m.artifact.Numeric {
		v, ok := r[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrFeatureSchema, name)
		}
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be numeric, got %T", ErrFeatureSchema, name, v)
		}
		x[offset+i] = f
	}
	return x, nil
}

// probabilities returns P(on_time) and P(delayed).
func (m *Model) probabilities(x []float64) (float64, float64) {
	z := m.artifact.Intercept
	for i, w := range m.artifact.Coefficients {
		z += w * x[i]
	}
	p1 := sigmoid(z)
	return 1 - p1, p1
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
