package evaluator

import (
	"math"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// distance wraps a measure over two vectors of the same dimension. A NaN
// measure is an error.
func distance(measure func(a, b []float64) (float64, bool)) func([]domain.Value) domain.EvalResult {
	return func(vals []domain.Value) domain.EvalResult {
		if !vals[0].IsVector() || !vals[1].IsVector() {
			return domain.ErrorResult()
		}
		a, b := vals[0].AsVector(), vals[1].AsVector()
		if len(a) != len(b) {
			return domain.ErrorResult()
		}
		d, ok := measure(a, b)
		if !ok || math.IsNaN(d) {
			return domain.ErrorResult()
		}
		return domain.ValueResult(domain.Double(d))
	}
}

// cosineDistance is undefined when either vector has no magnitude.
func cosineDistance(a, b []float64) (float64, bool) {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	mag := math.Sqrt(magA) * math.Sqrt(magB)
	if mag == 0 {
		return 0, false
	}
	return 1 - dot/mag, true
}

func dotProduct(a, b []float64) (float64, bool) {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot, true
}

func euclideanDistance(a, b []float64) (float64, bool) {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), true
}

func manhattanDistance(a, b []float64) (float64, bool) {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum, true
}

func vectorLength(vals []domain.Value) domain.EvalResult {
	if !vals[0].IsVector() {
		return domain.ErrorResult()
	}
	return domain.ValueResult(domain.Int(int64(len(vals[0].AsVector()))))
}
