package mc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func reconstruct(s *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(s, s.T())
	return &out
}

func TestFactorizers(t *testing.T) {
	cov := mat.NewSymDense(3, []float64{
		0.04, 0.018, 0.006,
		0.018, 0.09, 0.012,
		0.006, 0.012, 0.01,
	})

	type testCases struct {
		name string
		f    Factorizer
	}

	for _, test := range []testCases{
		{name: "CHOLESKY", f: Cholesky{}},
		{name: "SYMMETRIC_SQRT", f: SymmetricSqrt{}},
	} {
		t.Run(test.name, func(t *testing.T) {
			s, err := test.f.Factorize(cov)
			require.NoError(t, err)
			r, c := s.Dims()
			require.Equal(t, 3, r)
			require.Equal(t, 3, c)
			require.True(t, mat.EqualApprox(reconstruct(s), cov, 1e-12))
		})
	}
}

func TestCholeskyIsLowerTriangular(t *testing.T) {
	s, err := Cholesky{}.Factorize(mat.NewSymDense(2, []float64{4, 2, 2, 4}))
	require.NoError(t, err)
	require.Equal(t, 0.0, s.At(0, 1))
	require.InDelta(t, 2.0, s.At(0, 0), 1e-15)
	require.InDelta(t, 1.0, s.At(1, 0), 1e-15)
}

func TestSymmetricSqrtSemiDefinite(t *testing.T) {
	singular := mat.NewSymDense(2, []float64{1, 1, 1, 1})

	s, err := SymmetricSqrt{}.Factorize(singular)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(reconstruct(s), singular, 1e-12))
	require.InDelta(t, s.At(0, 1), s.At(1, 0), 1e-15)

	_, err = Cholesky{}.Factorize(singular)
	require.ErrorIs(t, err, errFactorization)
}

func TestSymmetricSqrtBadlyScaled(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{1, 0, 0, 1e-11})

	s, err := SymmetricSqrt{}.Factorize(cov)
	require.NoError(t, err)
	require.InDelta(t, 1e-11, reconstruct(s).At(1, 1), 1e-20)
	require.Empty(t, NewStepTransform(s).Degenerate())

	// rows keep their correlation structure regardless of scale
	cov = mat.NewSymDense(2, []float64{1, 0.5e-5, 0.5e-5, 1e-10})
	s, err = SymmetricSqrt{}.Factorize(cov)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(reconstruct(s), cov, 1e-15))
}

func TestSymmetricSqrtRejects(t *testing.T) {
	for name, cov := range map[string]*mat.SymDense{
		"INDEFINITE":         mat.NewSymDense(2, []float64{1, 2, 2, 1}),
		"ZERO":               mat.NewSymDense(2, nil),
		"NEGATIVE_VARIANCE":  mat.NewSymDense(2, []float64{1, 0, 0, -1}),
		"ZERO_VARIANCE_LINK": mat.NewSymDense(2, []float64{1, 0.1, 0.1, 0}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := SymmetricSqrt{}.Factorize(cov)
			require.ErrorIs(t, err, errFactorization)
		})
	}
}
