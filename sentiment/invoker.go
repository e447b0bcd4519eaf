package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

const (
	DefaultInputName  = "Features"
	DefaultOutputName = "Prediction/Softmax"
)

// Signature is the declared shape contract of a scoring model.
type Signature struct {
	InputName   string `json:"inputName"`
	InputType   string `json:"inputType"`
	InputLength int    `json:"inputLength"`
	OutputName  string `json:"outputName"`
	OutputType  string `json:"outputType"`
	ClassCount  int    `json:"classCount"`
}

// Scorer is the opaque pretrained model: a pure function from a fixed-length
// id vector to a class distribution.
type Scorer interface {
	Signature() Signature
	Score(ctx context.Context, features []int32) ([]float32, error)
}

// Invoker guards a Scorer with the pipeline's shape contract. It holds no
// state besides the scorer and is safe for concurrent use when the scorer is.
type Invoker struct {
	scorer        Scorer
	featureLength int
	classCount    int
}

// NewInvoker checks the scorer's declared signature once.
func NewInvoker(scorer Scorer, featureLength, classCount int) (*Invoker, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	sig := scorer.Signature()
	if sig.InputLength != featureLength {
		return nil, &ModelError{Field: "input length", Want: strconv.Itoa(featureLength), Got: strconv.Itoa(sig.InputLength)}
	}
	if sig.ClassCount != classCount {
		return nil, &ModelError{Field: "class count", Want: strconv.Itoa(classCount), Got: strconv.Itoa(sig.ClassCount)}
	}
	return &Invoker{scorer: scorer, featureLength: featureLength, classCount: classCount}, nil
}

// Signature returns the scorer's declared contract.
func (inv *Invoker) Signature() Signature { return inv.scorer.Signature() }

// FeatureLength is the vector length Predict accepts.
func (inv *Invoker) FeatureLength() int { return inv.featureLength }

// Scorer returns the wrapped model.
func (inv *Invoker) Scorer() Scorer { return inv.scorer }

// Predict scores one feature vector.
func (inv *Invoker) Predict(ctx context.Context, features FeatureVector) (ProbabilityVector, error) {
	if len(features) != inv.featureLength {
		return nil, violation("predict", "feature vector has %d entries, want %d", len(features), inv.featureLength)
	}
	out, err := inv.scorer.Score(ctx, features)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	if len(out) != inv.classCount {
		return nil, violation("predict", "model returned %d classes, want %d", len(out), inv.classCount)
	}
	return ProbabilityVector(out), nil
}
