package mc

import (
	"fmt"
	"math"
)

// HypHyp is the hyperbolic local-volatility backbone of the HypHyp model with
// its stochastic volatility factor held at its long run value (y = 0). The
// log-volatility at level x is Sigma * f(m)/m where m = x/Spot is the
// moneyness and f is the hyperbolic backbone controlled by Beta.
type HypHyp struct {
	Spot, Mu, Sigma, Beta float64
}

// Constructor for HypHyp model with default parameters
func NewHypHyp(spot float64) HypHyp {
	return HypHyp{Spot: spot, Mu: 0.0, Sigma: 0.40, Beta: 0.01}
}

func (m HypHyp) X0() float64 { return m.Spot }

// Local log-volatility at level x.
func (m HypHyp) localVol(x float64) (float64, error) {
	if err := checkLevel(x); err != nil {
		return math.NaN(), err
	}
	if !(m.Beta > 0) || !(m.Spot > 0) {
		return math.NaN(), fmt.Errorf("%w: hyphyp needs positive beta and spot", ErrInvalidConfig)
	}
	b1 := m.Beta
	b2 := b1 * b1
	k := x / m.Spot
	f := ((1.0-b1+b2)*k + (b1-1)*(math.Sqrt(k*k+b2*(1.0-k)*(1.0-k))-b1)) / b1
	return m.Sigma * f / k, nil
}

func (m HypHyp) Drift(t, x float64) (float64, error) {
	u, err := m.localVol(x)
	if err != nil {
		return math.NaN(), err
	}
	return m.Mu - 0.5*u*u, nil
}

func (m HypHyp) Variance(t, x, dt float64) (float64, error) {
	u, err := m.localVol(x)
	if err != nil {
		return math.NaN(), err
	}
	return u * u * dt, nil
}
