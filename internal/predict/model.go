// Package predict wraps the pre-trained diabetes classifier. The model
// is loaded once from its serialized artifact at process start and is
// read-only afterwards, so one handle is shared across sessions.
package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// FeatureNames lists the eight clinical inputs in the order the model
// was trained on.
var FeatureNames = []string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// Features is one patient's clinical input vector.
type Features struct {
	Pregnancies   float64
	Glucose       float64
	BloodPressure float64
	SkinThickness float64
	Insulin       float64
	BMI           float64
	DPF           float64
	Age           float64
}

func (f Features) vector() [8]float64 {
	return [8]float64{
		f.Pregnancies, f.Glucose, f.BloodPressure, f.SkinThickness,
		f.Insulin, f.BMI, f.DPF, f.Age,
	}
}

// Classifier is the opaque prediction contract: a class label and the
// positive-class probability.
type Classifier interface {
	Predict(f Features) (label int, probability float64)
}

// LogisticModel is a standardized logistic regression restored from a
// JSON artifact (feature means/scales, coefficients, intercept).
type LogisticModel struct {
	Mean      [8]float64 `json:"mean"`
	Scale     [8]float64 `json:"scale"`
	Coef      [8]float64 `json:"coef"`
	Intercept float64    `json:"intercept"`
}

// Load reads the model artifact. Call once at startup; a missing or
// malformed artifact is fatal there, not at first prediction.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model artifact: %w", err)
	}
	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	for i, s := range m.Scale {
		if s == 0 {
			return nil, fmt.Errorf("model artifact %s: zero scale for feature %s", path, FeatureNames[i])
		}
	}
	return &m, nil
}

// Predict scores one feature vector. Label is 1 when the positive-class
// probability reaches 0.5.
func (m *LogisticModel) Predict(f Features) (int, float64) {
	x := f.vector()
	z := m.Intercept
	for i := range x {
		z += m.Coef[i] * (x[i] - m.Mean[i]) / m.Scale[i]
	}
	p := 1.0 / (1.0 + math.Exp(-z))
	label := 0
	if p >= 0.5 {
		label = 1
	}
	return label, p
}
