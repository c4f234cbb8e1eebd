package timegrid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	type testCases struct {
		name  string
		times []float64
		ok    bool
	}

	for _, test := range []testCases{
		{name: "OK", times: []float64{0, 0.25, 0.5, 1.0}, ok: true},
		{name: "SINGLE_STEP", times: []float64{0, 1}, ok: true},
		{name: "EMPTY", times: nil},
		{name: "ONE_POINT", times: []float64{0}},
		{name: "NOT_INCREASING", times: []float64{0, 0.5, 0.5}},
		{name: "DECREASING", times: []float64{0, 1, 0.5}},
		{name: "NEGATIVE_START", times: []float64{-1, 0, 1}},
		{name: "NAN", times: []float64{0, math.NaN()}},
	} {
		t.Run(test.name, func(t *testing.T) {
			g, err := New(test.times)
			if !test.ok {
				require.ErrorIs(t, err, ErrInvalidGrid)
				require.Nil(t, g)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(test.times), g.Len())
			require.Equal(t, len(test.times)-1, g.Steps())
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	times := []float64{0, 0.5, 1}
	g, err := New(times)
	require.NoError(t, err)
	times[1] = 0.9
	require.Equal(t, 0.5, g.At(1))

	out := g.Times()
	out[2] = 7
	require.Equal(t, 1.0, g.End())
}

func TestDt(t *testing.T) {
	g, err := New([]float64{0, 0.1, 0.3, 0.6})
	require.NoError(t, err)
	require.InDelta(t, 0.1, g.Dt(0), 1e-15)
	require.InDelta(t, 0.2, g.Dt(1), 1e-15)
	require.InDelta(t, 0.3, g.Dt(2), 1e-15)
}

func TestUniform(t *testing.T) {
	g, err := Uniform(1.0, 12)
	require.NoError(t, err)
	require.Equal(t, 12, g.Steps())
	require.Equal(t, 1.0, g.End())
	for i := 0; i < g.Steps(); i++ {
		require.InDelta(t, 1.0/12.0, g.Dt(i), 1e-12)
	}

	_, err = Uniform(1.0, 0)
	require.ErrorIs(t, err, ErrInvalidGrid)
	_, err = Uniform(0, 10)
	require.ErrorIs(t, err, ErrInvalidGrid)
}

func TestFromDates(t *testing.T) {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{start, start.AddDate(0, 0, 73), start.AddDate(0, 0, 365)}

	g, err := FromDates(dates)
	require.NoError(t, err)
	require.Equal(t, 0.0, g.At(0))
	require.InDelta(t, 0.2, g.At(1), 1e-12)
	require.InDelta(t, 1.0, g.End(), 1e-12)

	_, err = FromDates(dates[:1])
	require.ErrorIs(t, err, ErrInvalidGrid)

	_, err = FromDates([]time.Time{start, start})
	require.ErrorIs(t, err, ErrInvalidGrid)
}
