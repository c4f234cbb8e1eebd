package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/banachtech/spotted-zebra/calendar"
	"github.com/banachtech/spotted-zebra/mc"
	"github.com/banachtech/spotted-zebra/rng"
	"github.com/banachtech/spotted-zebra/timegrid"
	"gonum.org/v1/gonum/mat"
)

func (g GridConfig) StartDate() (time.Time, error) {
	return time.Parse(calendar.Layout, g.Start)
}

// TimeGrid builds the simulation grid. A dated grid runs over NYSE business
// days, or over the start date plus the observation dates when
// ObservationOnly is set.
func (c *Config) TimeGrid() (*timegrid.TimeGrid, error) {
	if c.Grid.Start == "" {
		return timegrid.Uniform(c.Grid.Horizon, c.Grid.Steps)
	}
	start, err := c.Grid.StartDate()
	if err != nil {
		return nil, fmt.Errorf("%w: grid start: %w", ErrInvalidConfig, err)
	}
	sched, err := calendar.GenerateSchedule(start, c.Grid.TenorMonths, c.Grid.FrequencyMonths)
	if err != nil {
		return nil, err
	}
	dates := sched.Simulation
	if c.Grid.ObservationOnly {
		dates = append([]time.Time{start}, sched.Observation...)
	}
	for _, d := range sched.Observation {
		if !calendar.IsIn(d, dates) {
			return nil, fmt.Errorf("%w: observation date %s is not on the grid", ErrInvalidConfig, d.Format(calendar.Layout))
		}
	}
	return timegrid.FromDates(dates)
}

func (c *Config) Tickers() []string {
	out := make([]string, len(c.Assets))
	for i, a := range c.Assets {
		out[i] = strings.ToUpper(a.Ticker)
		if out[i] == "" {
			out[i] = fmt.Sprintf("ASSET%d", i)
		}
	}
	return out
}

func (a AssetConfig) process() (mc.Process, float64, error) {
	switch strings.ToLower(a.Model) {
	case "blackscholes":
		return mc.BlackScholes{Spot: a.Spot, Mu: a.Mu, Sigma: a.Sigma}, a.Sigma, nil
	case "cev":
		return mc.CEV{Spot: a.Spot, Mu: a.Mu, Sigma: a.Sigma, Beta: a.Beta}, a.Sigma, nil
	case "hyphyp":
		h := mc.NewHypHyp(a.Spot)
		h.Mu = a.Mu
		if a.Sigma > 0 {
			h.Sigma = a.Sigma
		}
		if a.Beta > 0 {
			h.Beta = a.Beta
		}
		return h, h.Sigma, nil
	}
	return nil, 0, fmt.Errorf("%w: unknown model %q", ErrInvalidConfig, a.Model)
}

// Processes returns one process per asset, in config order.
func (c *Config) Processes() ([]mc.Process, error) {
	out := make([]mc.Process, len(c.Assets))
	for i, a := range c.Assets {
		p, _, err := a.process()
		if err != nil {
			return nil, fmt.Errorf("asset %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func (c *Config) Drifts() []float64 {
	out := make([]float64, len(c.Assets))
	for i, a := range c.Assets {
		out[i] = a.Drift
	}
	return out
}

// Covariance scales the correlation matrix by each asset's volatility
// parameter: cov(i, j) = sigma(i) * rho(i, j) * sigma(j).
func (c *Config) Covariance() (*mat.SymDense, error) {
	n := len(c.Assets)
	if len(c.Correlation) != n {
		return nil, fmt.Errorf("%w: correlation has %d rows for %d assets", ErrInvalidConfig, len(c.Correlation), n)
	}
	vols := make([]float64, n)
	for i, a := range c.Assets {
		_, v, err := a.process()
		if err != nil {
			return nil, err
		}
		vols[i] = v
	}
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if len(c.Correlation[i]) != n {
			return nil, fmt.Errorf("%w: correlation row %d has %d columns", ErrInvalidConfig, i, len(c.Correlation[i]))
		}
		for j := i; j < n; j++ {
			cov.SetSym(i, j, vols[i]*c.Correlation[i][j]*vols[j])
		}
	}
	return cov, nil
}

func (c *Config) Factorizer() mc.Factorizer {
	if strings.EqualFold(c.Factorization, "cholesky") {
		return mc.Cholesky{}
	}
	return mc.SymmetricSqrt{}
}

// Factory returns a generator factory for mc.Simulate. Worker w draws from
// its own source seeded with Seed+w, so a run is reproducible for a fixed
// worker count.
func (c *Config) Factory(logger *slog.Logger) (mc.Factory, error) {
	grid, err := c.TimeGrid()
	if err != nil {
		return nil, err
	}
	procs, err := c.Processes()
	if err != nil {
		return nil, err
	}
	cov, err := c.Covariance()
	if err != nil {
		return nil, err
	}
	drifts := c.Drifts()
	dim := len(procs) * grid.Steps()
	opts := []mc.Option{mc.WithFactorizer(c.Factorizer()), mc.WithLogger(logger)}

	return func(worker int) (*mc.MultiPathGenerator, error) {
		seed := c.Seed + uint64(worker)
		var (
			src rng.SequenceGenerator
			err error
		)
		if c.ImportanceShift != 0 {
			shift := make([]float64, dim)
			for i := range shift {
				shift[i] = c.ImportanceShift
			}
			src, err = rng.NewShiftedGaussian(shift, seed)
		} else {
			src, err = rng.NewGaussian(dim, seed)
		}
		if err != nil {
			return nil, err
		}
		return mc.NewMultiPathGenerator(procs, drifts, cov, grid, src, opts...)
	}, nil
}
