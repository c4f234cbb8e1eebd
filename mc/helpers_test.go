package mc

import (
	"errors"
	"io"
	"log/slog"

	"github.com/banachtech/spotted-zebra/rng"
)

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedSource replays the same vector with a fixed weight.
type fixedSource struct {
	value  []float64
	weight float64
	calls  int
}

func (f *fixedSource) Dimension() int { return len(f.value) }

func (f *fixedSource) NextSequence() rng.Sample {
	f.calls++
	return rng.Sample{Value: f.value, Weight: f.weight}
}

// failingProcess behaves like its embedded model until failAt calls of
// Variance have been made, then returns errBoom.
type failingProcess struct {
	BlackScholes
	failAt int
	calls  int
}

func (p *failingProcess) Variance(t, x, dt float64) (float64, error) {
	p.calls++
	if p.calls >= p.failAt {
		return 0, errBoom
	}
	return p.BlackScholes.Variance(t, x, dt)
}

type negativeVariance struct{ BlackScholes }

func (negativeVariance) Variance(t, x, dt float64) (float64, error) { return -dt, nil }
