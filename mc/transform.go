package mc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Row norms at or below this fraction of the largest row norm are degenerate.
const degenerateRowTolerance = 1e-12

// StepTransform turns a block of independent standard normals into a
// correlated shock vector with unit variance per component. The magnitude of
// each shock is supplied later by the asset's own process, so only the
// correlation structure of the factor is kept.
//
// A StepTransform owns scratch buffers and is not safe for concurrent use.
type StepTransform struct {
	factor     *mat.Dense
	norms      []float64
	degenerate []int
	in, out    *mat.VecDense
}

// NewStepTransform precomputes the row norms of the square factor.
func NewStepTransform(factor *mat.Dense) *StepTransform {
	n, _ := factor.Dims()
	t := &StepTransform{
		factor: factor,
		norms:  make([]float64, n),
		in:     mat.NewVecDense(n, nil),
		out:    mat.NewVecDense(n, nil),
	}
	maxNorm := 0.0
	for k := 0; k < n; k++ {
		t.norms[k] = floats.Norm(factor.RawRowView(k), 2)
		if t.norms[k] > maxNorm {
			maxNorm = t.norms[k]
		}
	}
	for k, v := range t.norms {
		if v <= degenerateRowTolerance*maxNorm {
			// deterministic asset: its shock is pinned to zero
			t.norms[k] = 0
			t.degenerate = append(t.degenerate, k)
		}
	}
	return t
}

// Dim is the number of assets handled by the transform.
func (t *StepTransform) Dim() int { return len(t.norms) }

// Degenerate lists the assets whose factor row has zero norm.
func (t *StepTransform) Degenerate() []int { return t.degenerate }

// Apply writes factor*draw, normalised row by row, into dst and returns it.
// dst and draw must have length Dim(). Degenerate rows produce a zero shock.
func (t *StepTransform) Apply(dst, draw []float64) []float64 {
	copy(t.in.RawVector().Data, draw)
	t.out.MulVec(t.factor, t.in)
	for k, norm := range t.norms {
		if norm == 0 {
			dst[k] = 0
			continue
		}
		dst[k] = t.out.AtVec(k) / norm
	}
	return dst
}
