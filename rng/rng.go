// Package rng provides seeded sources of independent normal variates for the
// path generator. A source emits one fixed-length vector per call, together
// with an importance-sampling weight.
package rng

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrInvalidDimension = errors.New("invalid sequence dimension")

// Sample is a weighted draw. Value is owned by the source and is overwritten
// by the next call to NextSequence.
type Sample struct {
	Value  []float64
	Weight float64
}

// SequenceGenerator is a stateful source of weighted random vectors.
// Implementations are not safe for concurrent use.
type SequenceGenerator interface {
	// Dimension is the length of every vector returned by NextSequence.
	Dimension() int
	// NextSequence advances the source and returns the next weighted vector.
	NextSequence() Sample
}

// Gaussian draws independent standard normal variates with unit weight.
type Gaussian struct {
	dist   distuv.Normal
	sample Sample
}

// NewGaussian returns a source of dim-dimensional N(0, I) vectors. Two sources
// built with the same seed produce the same sequence.
func NewGaussian(dim int, seed uint64) (*Gaussian, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &Gaussian{
		dist:   distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(seed)},
		sample: Sample{Value: make([]float64, dim), Weight: 1.0},
	}, nil
}

func (g *Gaussian) Dimension() int { return len(g.sample.Value) }

func (g *Gaussian) NextSequence() Sample {
	for i := range g.sample.Value {
		g.sample.Value[i] = g.dist.Rand()
	}
	return g.sample
}

// ShiftedGaussian samples each component from N(shift[i], 1) and reports the
// likelihood ratio of N(0, I) against the shifted measure as the weight, so
// weighted averages stay unbiased for the unshifted distribution.
type ShiftedGaussian struct {
	unit   distuv.Normal
	shifts []distuv.Normal
	sample Sample
}

// NewShiftedGaussian returns an importance-sampled source whose dimension is
// len(shift).
func NewShiftedGaussian(shift []float64, seed uint64) (*ShiftedGaussian, error) {
	if len(shift) == 0 {
		return nil, fmt.Errorf("%w: empty shift vector", ErrInvalidDimension)
	}
	src := rand.NewSource(seed)
	s := &ShiftedGaussian{
		unit:   distuv.Normal{Mu: 0.0, Sigma: 1.0},
		shifts: make([]distuv.Normal, len(shift)),
		sample: Sample{Value: make([]float64, len(shift))},
	}
	for i, m := range shift {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("shift(%d) is not finite", i)
		}
		s.shifts[i] = distuv.Normal{Mu: m, Sigma: 1.0, Src: src}
	}
	return s, nil
}

func (s *ShiftedGaussian) Dimension() int { return len(s.sample.Value) }

func (s *ShiftedGaussian) NextSequence() Sample {
	logW := 0.0
	for i := range s.sample.Value {
		z := s.shifts[i].Rand()
		s.sample.Value[i] = z
		logW += s.unit.LogProb(z) - s.shifts[i].LogProb(z)
	}
	s.sample.Weight = math.Exp(logW)
	return s.sample
}
