package mc

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfig marks construction-time configuration errors.
	ErrInvalidConfig = errors.New("invalid multipath configuration")
	// ErrInvalidLevel is returned by processes asked about a level they are
	// not defined at.
	ErrInvalidLevel = errors.New("invalid asset level")
	// ErrNegativeVariance is returned when a process reports a variance below zero.
	ErrNegativeVariance = errors.New("negative variance")
	// ErrAntitheticUnsupported is returned by MultiPathGenerator.Antithetic.
	ErrAntitheticUnsupported = errors.New("antithetic paths are not supported by the correlated generator")
)

// Process is a one dimensional diffusion for an asset level x.
// Drift is the instantaneous log-drift rate and Variance the variance of the
// log-increment over [t, t+dt], both evaluated at the current level.
type Process interface {
	// Initial level of the asset
	X0() float64
	// Drift rate at time t and level x
	Drift(t, x float64) (float64, error)
	// Variance of the log-increment over dt starting at time t and level x
	Variance(t, x, dt float64) (float64, error)
}

// BlackScholes is a geometric brownian motion with constant parameters.
type BlackScholes struct {
	Spot, Mu, Sigma float64
}

func (m BlackScholes) X0() float64 { return m.Spot }

func (m BlackScholes) Drift(t, x float64) (float64, error) {
	return m.Mu - 0.5*m.Sigma*m.Sigma, nil
}

func (m BlackScholes) Variance(t, x, dt float64) (float64, error) {
	return m.Sigma * m.Sigma * dt, nil
}

// CEV is a constant elasticity of variance model. The local log-volatility is
// Sigma * x^(Beta-1), so Beta = 1 recovers Black-Scholes.
type CEV struct {
	Spot, Mu, Sigma, Beta float64
}

func (m CEV) X0() float64 { return m.Spot }

func (m CEV) localVol(x float64) (float64, error) {
	if err := checkLevel(x); err != nil {
		return math.NaN(), err
	}
	return m.Sigma * math.Pow(x, m.Beta-1.0), nil
}

func (m CEV) Drift(t, x float64) (float64, error) {
	v, err := m.localVol(x)
	if err != nil {
		return math.NaN(), err
	}
	return m.Mu - 0.5*v*v, nil
}

func (m CEV) Variance(t, x, dt float64) (float64, error) {
	v, err := m.localVol(x)
	if err != nil {
		return math.NaN(), err
	}
	return v * v * dt, nil
}

// Levels must be finite and strictly positive for the multiplicative models.
func checkLevel(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, x)
	}
	return nil
}
