// Package timegrid holds the discretised time axis shared by the path generator
// and every path it fills.
package timegrid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidGrid is returned for grids that cannot drive a simulation.
var ErrInvalidGrid = errors.New("invalid time grid")

// Year fraction convention used when building grids from calendar dates.
const daysPerYear = 365.0

// TimeGrid is an immutable, strictly increasing sequence of times in years.
// t[0] is "now".
type TimeGrid struct {
	times []float64
}

// New validates times and returns a grid holding a private copy of them.
func New(times []float64) (*TimeGrid, error) {
	if len(times) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGrid, len(times))
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: time(%d) is not finite", ErrInvalidGrid, i)
		}
	}
	if times[0] < 0 {
		return nil, fmt.Errorf("%w: first time (%v) must be non negative", ErrInvalidGrid, times[0])
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("%w: time(%d)=%v is not later than time(%d)=%v", ErrInvalidGrid, i, times[i], i-1, times[i-1])
		}
	}
	t := make([]float64, len(times))
	copy(t, times)
	return &TimeGrid{times: t}, nil
}

// Uniform returns steps equal intervals covering [0, end].
func Uniform(end float64, steps int) (*TimeGrid, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidGrid, steps)
	}
	if !(end > 0) {
		return nil, fmt.Errorf("%w: horizon must be positive, got %v", ErrInvalidGrid, end)
	}
	times := make([]float64, steps+1)
	dt := end / float64(steps)
	for i := range times {
		times[i] = float64(i) * dt
	}
	// avoid accumulated rounding on the last point
	times[steps] = end
	return New(times)
}

// FromDates converts observation dates into ACT/365 year fractions measured
// from the first date.
func FromDates(dates []time.Time) (*TimeGrid, error) {
	if len(dates) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 dates, got %d", ErrInvalidGrid, len(dates))
	}
	times := make([]float64, len(dates))
	for i, d := range dates {
		times[i] = d.Sub(dates[0]).Hours() / (daysPerYear * 24.0)
	}
	return New(times)
}

// Len is the number of time points.
func (g *TimeGrid) Len() int { return len(g.times) }

// Steps is the number of intervals, Len()-1.
func (g *TimeGrid) Steps() int { return len(g.times) - 1 }

// At returns the i-th time point.
func (g *TimeGrid) At(i int) float64 { return g.times[i] }

// Dt returns the length of the i-th interval, t[i+1]-t[i].
func (g *TimeGrid) Dt(i int) float64 { return g.times[i+1] - g.times[i] }

// End returns the last time point.
func (g *TimeGrid) End() float64 { return g.times[len(g.times)-1] }

// Times returns a copy of the time points.
func (g *TimeGrid) Times() []float64 {
	t := make([]float64, len(g.times))
	copy(t, g.times)
	return t
}
