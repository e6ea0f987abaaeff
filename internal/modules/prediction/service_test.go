package prediction

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontime/internal/modules/features"
)

func testArtifact() Artifact {
	return Artifact{
		Version:      "test",
		Categorical:  []CategoricalColumn{{Name: features.Airline, Categories: []string{"AZ", "LA"}}},
		Numeric:      []string{features.IsPeakHour, features.RainSum1h},
		Coefficients: []float64{0.5, -0.5, 2.0, 1.0},
		Intercept:    -1.0,
		Threshold:    0.5,
	}
}

func testService(t *testing.T) *Service {
	t.Helper()
	m, err := NewModel(testArtifact())
	require.NoError(t, err)
	return NewService(m)
}

func TestPredict_ReturnsPredictedClassProbability(t *testing.T) {
	svc := testService(t)
	want := 1 / (1 + math.Exp(-1.5))

	delayed, err := svc.Predict(features.Record{features.Airline: "AZ", features.IsPeakHour: 1, features.RainSum1h: 0.0})
	require.NoError(t, err)
	assert.Equal(t, LabelDelayed, delayed.Label)
	assert.InDelta(t, want, delayed.Probability, 1e-12)
	assert.InDelta(t, want, delayed.PositiveProbability, 1e-12)

	onTime, err := svc.Predict(features.Record{features.Airline: "LA", features.IsPeakHour: 0, features.RainSum1h: 0.0})
	require.NoError(t, err)
	assert.Equal(t, LabelOnTime, onTime.Label)
	assert.InDelta(t, want, onTime.Probability, 1e-12, "probability must be that of the on_time class")
	assert.InDelta(t, 1-want, onTime.PositiveProbability, 1e-12)
}

func TestPredict_TieFavoursDelayed(t *testing.T) {
	svc := testService(t)
	// Unknown airline encodes as zeros: z = 1.0*1 - 1 = 0.
	res, err := svc.Predict(features.Record{features.Airline: "ZZ", features.IsPeakHour: 0, features.RainSum1h: 1.0})
	require.NoError(t, err)
	assert.Equal(t, LabelDelayed, res.Label)
	assert.Equal(t, 0.5, res.Probability)
}

func TestPredict_ModelUnavailable(t *testing.T) {
	svc := NewService(nil)
	assert.False(t, svc.Ready())
	_, err := svc.Predict(features.Record{})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredict_SchemaErrors(t *testing.T) {
	svc := testService(t)
	cases := map[string]features.Record{
		"missing numeric":     {features.Airline: "AZ", features.IsPeakHour: 1},
		"missing categorical": {features.IsPeakHour: 1, features.RainSum1h: 0.0},
		"categorical not str": {features.Airline: 7, features.IsPeakHour: 1, features.RainSum1h: 0.0},
		"numeric as string":   {features.Airline: "AZ", features.IsPeakHour: 1, features.RainSum1h: "0.0"},
		"numeric as bool":     {features.Airline: "AZ", features.IsPeakHour: true, features.RainSum1h: 0.0},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Predict(rec)
			assert.ErrorIs(t, err, ErrFeatureSchema)
		})
	}
}

func TestNewModel_Validation(t *testing.T) {
	bad := testArtifact()
	bad.Coefficients = bad.Coefficients[:3]
	_, err := NewModel(bad)
	assert.ErrorIs(t, err, ErrInvalidArtifact)

	bad = testArtifact()
	bad.Threshold = 1.5
	_, err = NewModel(bad)
	assert.ErrorIs(t, err, ErrInvalidArtifact)

	bad = testArtifact()
	bad.Numeric = append(bad.Numeric, features.Airline)
	bad.Coefficients = append(bad.Coefficients, 0)
	_, err = NewModel(bad)
	assert.ErrorIs(t, err, ErrInvalidArtifact, "duplicate column names must be rejected")

	_, err = NewModel(Artifact{})
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoadModel_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("not json"), 0o644))
	_, err = LoadModel(garbage)
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoadModel_ShippedArtifactAcceptsBuilderRecords(t *testing.T) {
	m, err := LoadModel(filepath.Join("..", "..", "..", "model", "delay_model.json"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.Threshold())
	assert.NotEmpty(t, m.Version())

	rec := features.Record{}
	for _, k := range features.Schema {
		rec[k] = 0.0
	}
	rec[features.Airline] = "AZ"
	rec[features.Route] = "SBGL_SBGR"
	rec[features.HourBucket] = 1

	res, err := NewService(m).Predict(rec)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Probability, 0.5)
	assert.LessOrEqual(t, res.Probability, 1.0)
}
