package sentiment

import (
	"errors"
	"math"
	"testing"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		probs ProbabilityVector
		want  Result
	}{
		{probs: ProbabilityVector{0.3, 0.7}, want: Result{Label: LabelPositive, Confidence: 0.7}},
		{probs: ProbabilityVector{0.9, 0.1}, want: Result{Label: LabelNegative, Confidence: 0.9}},
		{probs: ProbabilityVector{0.5, 0.5}, want: Result{Label: LabelNegative, Confidence: 0.5}},
		{probs: ProbabilityVector{0.35, 0.65}, want: Result{Label: LabelPositive, Confidence: 0.65}},
		{probs: ProbabilityVector{0, 1}, want: Result{Label: LabelPositive, Confidence: 1}},
		{probs: ProbabilityVector{1, 0}, want: Result{Label: LabelNegative, Confidence: 1}},
		{probs: ProbabilityVector{0.4995, 0.5}, want: Result{Label: LabelNegative, Confidence: 0.4995}},
	}
	for _, tc := range cases {
		got, err := Decide(tc.probs)
		if err != nil {
			t.Fatalf("decide %v: %v", tc.probs, err)
		}
		if got != tc.want {
			t.Fatalf("decide %v: got %+v want %+v", tc.probs, got, tc.want)
		}
		again, _ := Decide(tc.probs)
		if again != got {
			t.Fatalf("decide %v is not deterministic", tc.probs)
		}
	}
}

func TestDecideContractViolations(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	cases := []ProbabilityVector{
		nil,
		{1},
		{0.2, 0.3, 0.5},
		{0.3, 0.6},
		{0.6, 0.6},
		{nan, 1},
		{-0.5, 1.5},
	}
	for _, probs := range cases {
		_, err := Decide(probs)
		if !errors.Is(err, ErrContract) {
			t.Fatalf("decide %v: expected contract violation, got %v", probs, err)
		}
		var cv *ContractViolation
		if !errors.As(err, &cv) || cv.Boundary != "decide" {
			t.Fatalf("decide %v: unexpected error %v", probs, err)
		}
	}
}
