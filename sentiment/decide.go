package sentiment

import "math"

// SumTolerance bounds how far a probability vector may drift from 1.0.
const SumTolerance = 1e-3

// Decide interprets a binary softmax output. The review is positive only when
// the positive mass is strictly greater than 0.5; confidence is always the
// mass assigned to the chosen label.
func Decide(probs ProbabilityVector) (Result, error) {
	if len(probs) != ClassCount {
		return Result{}, violation("decide", "probability vector has %d classes, want %d", len(probs), ClassCount)
	}
	var sum float64
	for i, p := range probs {
		f := float64(p)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return Result{}, violation("decide", "invalid probability %v at index %d", p, i)
		}
		sum += f
	}
	if math.Abs(sum-1) > SumTolerance {
		return Result{}, violation("decide", "probabilities sum to %.6f", sum)
	}
	if probs[PositiveIndex] > 0.5 {
		return Result{Label: LabelPositive, Confidence: probs[PositiveIndex]}, nil
	}
	return Result{Label: LabelNegative, Confidence: probs[NegativeIndex]}, nil
}
