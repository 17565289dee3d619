package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"medichat/internal/tools"
)

// Result is the serialized prediction handed back into the transcript.
type Result struct {
	Prediction  int     `json:"prediction"`
	Diabetes    string  `json:"diabetes"`
	Probability float64 `json:"probability"`
}

// Tool exposes the classifier as the predict_diabetes capability.
type Tool struct {
	Model Classifier
}

func NewTool(model Classifier) *Tool {
	return &Tool{Model: model}
}

func (t *Tool) Name() string { return "predict_diabetes" }

func (t *Tool) Description() string {
	return "Predicts diabetes risk from eight clinical measurements using a trained ML model. " +
		"Call this whenever the user provides numerical health data."
}

func (t *Tool) Schema() tools.Schema {
	return tools.Schema{
		"pregnancies":    {Type: "integer", Description: "Number of pregnancies.", Required: true},
		"glucose":        {Type: "number", Description: "Plasma glucose concentration.", Required: true},
		"blood_pressure": {Type: "number", Description: "Diastolic blood pressure (mm Hg).", Required: true},
		"skin_thickness": {Type: "number", Description: "Triceps skin fold thickness (mm).", Required: true},
		"insulin":        {Type: "number", Description: "2-hour serum insulin (mu U/ml).", Required: true},
		"bmi":            {Type: "number", Description: "Body mass index.", Required: true},
		"dpf":            {Type: "number", Description: "Diabetes pedigree function.", Required: true},
		"age":            {Type: "integer", Description: "Age in years.", Required: true},
	}
}

func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	f := Features{
		Pregnancies:   num(args["pregnancies"]),
		Glucose:       num(args["glucose"]),
		BloodPressure: num(args["blood_pressure"]),
		SkinThickness: num(args["skin_thickness"]),
		Insulin:       num(args["insulin"]),
		BMI:           num(args["bmi"]),
		DPF:           num(args["dpf"]),
		Age:           num(args["age"]),
	}

	label, prob := t.Model.Predict(f)
	res := Result{
		Prediction:  label,
		Diabetes:    yesNo(label),
		Probability: math.Round(prob*1000) / 1000,
	}

	out, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode prediction: %w", err)
	}
	return string(out), nil
}

func yesNo(label int) string {
	if label == 1 {
		return "Yes"
	}
	return "No"
}

// num reads a schema-validated numeric argument; validation upstream
// guarantees the type, so unexpected values collapse to zero.
func num(v any) float64 {
	f, _ := v.(float64)
	return f
}
