package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FieldStats summarises a cell field
type FieldStats struct {
	Min, Max, Mean float64
}

// Stats ignores non-finite entries, an all non-finite field reports zeros
func Stats(v []float64) (fs FieldStats) {
	var (
		finite = make([]float64, 0, len(v))
	)
	for _, f := range v {
		if IsFinite(f) {
			finite = append(finite, f)
		}
	}
	if len(finite) == 0 {
		return
	}
	fs.Min, fs.Max = floats.Min(finite), floats.Max(finite)
	fs.Mean = floats.Sum(finite) / float64(len(finite))
	return
}

func Mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

// NormInf is the largest absolute entry
func NormInf(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, math.Inf(1))
}
