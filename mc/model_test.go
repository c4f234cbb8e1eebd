package mc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlackScholes(t *testing.T) {
	m := BlackScholes{Spot: 100, Mu: 0.05, Sigma: 0.2}
	require.Equal(t, 100.0, m.X0())

	mu, err := m.Drift(0.5, 80)
	require.NoError(t, err)
	require.InDelta(t, 0.05-0.02, mu, 1e-15)

	v, err := m.Variance(0.5, 80, 0.25)
	require.NoError(t, err)
	require.InDelta(t, 0.01, v, 1e-15)
}

func TestCEV(t *testing.T) {
	bs := BlackScholes{Spot: 1, Mu: 0.03, Sigma: 0.25}
	lognormal := CEV{Spot: 1, Mu: 0.03, Sigma: 0.25, Beta: 1}
	for _, x := range []float64{0.5, 1, 2} {
		want, _ := bs.Variance(0, x, 0.1)
		got, err := lognormal.Variance(0, x, 0.1)
		require.NoError(t, err)
		require.InDelta(t, want, got, 1e-15)
	}

	m := CEV{Spot: 1, Mu: 0, Sigma: 0.2, Beta: 0.5}
	v, err := m.Variance(0, 4, 1)
	require.NoError(t, err)
	// sigma * 4^(-1/2) = 0.1
	require.InDelta(t, 0.01, v, 1e-15)

	for _, x := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = m.Variance(0, x, 1)
		require.ErrorIs(t, err, ErrInvalidLevel)
		_, err = m.Drift(0, x)
		require.ErrorIs(t, err, ErrInvalidLevel)
	}
}

func TestHypHyp(t *testing.T) {
	m := NewHypHyp(100)
	require.Equal(t, 100.0, m.X0())

	// the backbone is calibrated so that the local vol at spot is Sigma
	v, err := m.Variance(0, 100, 1)
	require.NoError(t, err)
	require.InDelta(t, m.Sigma*m.Sigma, v, 1e-12)

	mu, err := m.Drift(0, 100)
	require.NoError(t, err)
	require.InDelta(t, m.Mu-0.5*m.Sigma*m.Sigma, mu, 1e-12)

	low, err := m.Variance(0, 50, 1)
	require.NoError(t, err)
	high, err := m.Variance(0, 200, 1)
	require.NoError(t, err)
	require.NotEqual(t, low, high)

	_, err = m.Variance(0, 0, 1)
	require.ErrorIs(t, err, ErrInvalidLevel)

	bad := HypHyp{Spot: 100, Sigma: 0.3, Beta: 0}
	_, err = bad.Drift(0, 100)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
