package mc

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/banachtech/spotted-zebra/rng"
	"github.com/banachtech/spotted-zebra/timegrid"
	"gonum.org/v1/gonum/mat"
)

// MultiPathGenerator produces correlated multi-asset paths from a random
// sequence source. Each asset is stepped with a log-Euler scheme whose drift
// and variance are evaluated at the currently simulated level, while the
// cross-asset correlation comes from a factor of the covariance matrix
// computed once at construction.
//
// A generator owns its source and its output sample; it must not be used from
// more than one goroutine at a time.
type MultiPathGenerator struct {
	processes []Process
	numAssets int
	grid      *timegrid.TimeGrid
	transform *StepTransform
	generator rng.SequenceGenerator
	logger    *slog.Logger

	next Sample
	// per-call scratch, reset at the start of every Next
	level []float64
	shock []float64
}

type options struct {
	factorizer Factorizer
	logger     *slog.Logger
}

// Option configures a MultiPathGenerator.
type Option func(*options)

// WithFactorizer selects the covariance factorization. The default is
// SymmetricSqrt.
func WithFactorizer(f Factorizer) Option {
	return func(o *options) { o.factorizer = f }
}

// WithLogger sets the logger used for construction and antithetic warnings.
// A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewMultiPathGenerator validates its inputs, factorizes the covariance and
// allocates the sample that every call to Next overwrites. drifts seeds the
// drift increments until the first path is drawn.
func NewMultiPathGenerator(processes []Process, drifts []float64, covariance mat.Symmetric,
	grid *timegrid.TimeGrid, generator rng.SequenceGenerator, opts ...Option) (*MultiPathGenerator, error) {
	o := options{factorizer: SymmetricSqrt{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if grid == nil || grid.Len() < 2 {
		return nil, fmt.Errorf("%w: no times given", ErrInvalidConfig)
	}
	if covariance == nil {
		return nil, fmt.Errorf("%w: no covariance given", ErrInvalidConfig)
	}
	rows, cols := covariance.Dims()
	if rows != cols || rows == 0 {
		return nil, fmt.Errorf("%w: covariance is %dx%d, want a non-empty square matrix", ErrInvalidConfig, rows, cols)
	}
	numAssets := rows
	numSteps := grid.Steps()
	if err := checkCovariance(covariance); err != nil {
		return nil, err
	}
	if len(processes) != numAssets {
		return nil, fmt.Errorf("%w: %d processes given for %d assets", ErrInvalidConfig, len(processes), numAssets)
	}
	for j, p := range processes {
		if p == nil {
			return nil, fmt.Errorf("%w: process %d is nil", ErrInvalidConfig, j)
		}
	}
	if len(drifts) != numAssets {
		return nil, fmt.Errorf("%w: covariance and drifts do not have the same size (%d != %d)", ErrInvalidConfig, numAssets, len(drifts))
	}
	if generator == nil {
		return nil, fmt.Errorf("%w: no random sequence generator given", ErrInvalidConfig)
	}
	if dim := generator.Dimension(); dim != numAssets*numSteps {
		return nil, fmt.Errorf("%w: generator dimension (%d) is not equal to (%d * %d) the number of assets times the number of time steps",
			ErrInvalidConfig, dim, numAssets, numSteps)
	}

	factor, err := o.factorizer.Factorize(covariance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if fr, fc := factor.Dims(); fr != numAssets || fc != numAssets {
		return nil, fmt.Errorf("%w: covariance factor is %dx%d, want %dx%d", ErrInvalidConfig, fr, fc, numAssets, numAssets)
	}

	g := &MultiPathGenerator{
		processes: processes,
		numAssets: numAssets,
		grid:      grid,
		transform: NewStepTransform(factor),
		generator: generator,
		logger:    o.logger.With(slog.String("component", "multipath")),
		next:      Sample{Value: NewMultiPath(numAssets, grid), Weight: 1.0},
		level:     make([]float64, numAssets),
		shock:     make([]float64, numAssets),
	}

	for j := 0; j < numAssets; j++ {
		d := g.next.Value.Asset(j).Drift()
		for i := 0; i < numSteps; i++ {
			d[i] = drifts[j] * grid.Dt(i)
		}
	}

	if deg := g.transform.Degenerate(); len(deg) > 0 {
		g.logger.Warn("covariance factor has zero rows, those assets get no random shock",
			slog.Any("assets", deg))
	}
	g.logger.Debug("multipath generator ready",
		slog.Int("assets", numAssets),
		slog.Int("steps", numSteps),
		slog.Int("dimension", generator.Dimension()))
	return g, nil
}

func checkCovariance(c mat.Symmetric) error {
	n, _ := c.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := c.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: covariance(%d,%d) is not finite", ErrInvalidConfig, i, j)
			}
		}
		if c.At(i, i) < 0 {
			return fmt.Errorf("%w: negative variance on covariance diagonal (%d)", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Next draws a new random sequence and overwrites the generator's sample
// with the resulting multipath. The returned sample is only valid until the
// next call. Errors reported by a process are returned wrapped, and leave the
// sample partially written.
func (g *MultiPathGenerator) Next() (*Sample, error) {
	sequence := g.generator.NextSequence()
	g.next.Weight = sequence.Weight

	for j, p := range g.processes {
		g.level[j] = p.X0()
	}

	numSteps := g.grid.Steps()
	for i := 0; i < numSteps; i++ {
		offset := i * g.numAssets
		t := g.grid.At(i + 1)
		dt := g.grid.Dt(i)
		g.transform.Apply(g.shock, sequence.Value[offset:offset+g.numAssets])

		for j, p := range g.processes {
			path := g.next.Value.Asset(j)
			mu, err := p.Drift(t, g.level[j])
			if err != nil {
				return nil, fmt.Errorf("asset %d step %d drift: %w", j, i, err)
			}
			v, err := p.Variance(t, g.level[j], dt)
			if err != nil {
				return nil, fmt.Errorf("asset %d step %d variance: %w", j, i, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("asset %d step %d: %w: %v", j, i, ErrNegativeVariance, v)
			}
			path.drift[i] = dt * mu
			path.diffusion[i] = -g.shock[j] * math.Sqrt(v)
			g.level[j] *= math.Exp(path.drift[i] + path.diffusion[i])
		}
	}
	return &g.next, nil
}

// Antithetic is not implemented for the correlated, state dependent scheme:
// flipping the sign of the shocks does not mirror paths of non-symmetric
// models. It always fails with ErrAntitheticUnsupported.
func (g *MultiPathGenerator) Antithetic() (*Sample, error) {
	g.logger.Warn("antithetic multipath requested but not supported")
	return nil, ErrAntitheticUnsupported
}

// AssetCount is the number of simulated assets.
func (g *MultiPathGenerator) AssetCount() int { return g.numAssets }

// TimeGrid is the grid shared by every path of the generator.
func (g *MultiPathGenerator) TimeGrid() *timegrid.TimeGrid { return g.grid }
