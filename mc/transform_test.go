package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStepTransformApply(t *testing.T) {
	// Cholesky factor of [[4 2] [2 4]]
	factor := mat.NewDense(2, 2, []float64{2, 0, 1, math.Sqrt(3)})
	tr := NewStepTransform(factor)
	require.Equal(t, 2, tr.Dim())
	require.Empty(t, tr.Degenerate())

	out := tr.Apply(make([]float64, 2), []float64{1, 1})
	require.InDelta(t, 1.0, out[0], 1e-15)
	require.InDelta(t, (1+math.Sqrt(3))/2, out[1], 1e-15)
}

func TestStepTransformNormalisesEveryRow(t *testing.T) {
	factor := mat.NewDense(3, 3, []float64{
		3, 0, 0,
		1, 2, 0,
		0.5, 0.5, 4,
	})
	tr := NewStepTransform(factor)

	// unit vectors pick out columns; the squared outputs over all unit
	// vectors sum to the squared normalised row, which must be one
	sum := make([]float64, 3)
	dst := make([]float64, 3)
	for k := 0; k < 3; k++ {
		e := make([]float64, 3)
		e[k] = 1
		tr.Apply(dst, e)
		for j := range dst {
			sum[j] += dst[j] * dst[j]
		}
	}
	for j := range sum {
		require.InDelta(t, 1.0, sum[j], 1e-12, "row %d", j)
	}
}

func TestStepTransformDegenerateRow(t *testing.T) {
	factor := mat.NewDense(2, 2, []float64{0.2, 0, 0, 0})
	tr := NewStepTransform(factor)
	require.Equal(t, []int{1}, tr.Degenerate())

	out := tr.Apply(make([]float64, 2), []float64{1.5, -2})
	require.InDelta(t, 1.5, out[0], 1e-15)
	require.Equal(t, 0.0, out[1])
	require.False(t, math.IsNaN(out[1]))
}

func TestStepTransformDoesNotKeepDraw(t *testing.T) {
	factor := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	tr := NewStepTransform(factor)
	draw := []float64{0.3, -0.7}
	out := tr.Apply(make([]float64, 2), draw)
	require.Equal(t, []float64{0.3, -0.7}, out)
	draw[0] = 9
	require.Equal(t, 0.3, out[0])
}
