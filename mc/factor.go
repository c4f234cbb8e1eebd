package mc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultEigenTolerance is the relative size below which eigenvalues are
// treated as zero by SymmetricSqrt.
const DefaultEigenTolerance = 1e-10

var errFactorization = errors.New("covariance factorization failed")

// Factorizer computes a matrix S with S*S' equal to a covariance matrix.
type Factorizer interface {
	Factorize(cov mat.Symmetric) (*mat.Dense, error)
}

// Cholesky factorizes a positive definite covariance into its lower
// triangular Cholesky factor.
type Cholesky struct{}

func (Cholesky) Factorize(cov mat.Symmetric) (*mat.Dense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("%w: matrix is not positive definite", errFactorization)
	}
	var l mat.TriDense
	chol.LTo(&l)
	return mat.DenseCopyOf(&l), nil
}

// SymmetricSqrt factorizes the correlation matrix R = D^-1/2 * C * D^-1/2
// through its eigen decomposition and returns D^1/2 * V*sqrt(L)*V'. Clipping
// happens on R, so eigenvalues within Tolerance*max(L) of zero are set to
// zero whatever the scale of the individual variances, and more negative ones
// are rejected. Assets with zero variance get a zero row.
type SymmetricSqrt struct {
	Tolerance float64
}

func (f SymmetricSqrt) Factorize(cov mat.Symmetric) (*mat.Dense, error) {
	tol := f.Tolerance
	if tol <= 0 {
		tol = DefaultEigenTolerance
	}
	n, _ := cov.Dims()

	vol := make([]float64, n)
	for i := range vol {
		v := cov.At(i, i)
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: negative variance %v at %d", errFactorization, v, i)
		}
		vol[i] = math.Sqrt(v)
	}
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			c := cov.At(i, j)
			if vol[i] == 0 || vol[j] == 0 {
				if c != 0 {
					return nil, fmt.Errorf("%w: non-zero covariance (%d,%d) for a zero variance asset", errFactorization, i, j)
				}
				continue
			}
			corr.SetSym(i, j, c/(vol[i]*vol[j]))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(corr, true); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition did not converge", errFactorization)
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	maxVal := 0.0
	for _, v := range vals {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal <= 0 {
		return nil, fmt.Errorf("%w: matrix has no positive eigenvalue", errFactorization)
	}
	sq := make([]float64, n)
	for i, v := range vals {
		switch {
		case v < -tol*maxVal:
			return nil, fmt.Errorf("%w: negative eigenvalue %v", errFactorization, v)
		case v < tol*maxVal:
			sq[i] = 0
		default:
			sq[i] = math.Sqrt(v)
		}
	}

	var tmp, root, s mat.Dense
	tmp.Mul(&vecs, mat.NewDiagDense(n, sq))
	root.Mul(&tmp, vecs.T())
	s.Mul(mat.NewDiagDense(n, vol), &root)
	return &s, nil
}
