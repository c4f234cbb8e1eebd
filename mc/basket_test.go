package mc

import (
	"math"
	"testing"

	"github.com/banachtech/spotted-zebra/timegrid"
	"github.com/stretchr/testify/require"
)

func TestPathLevels(t *testing.T) {
	grid, err := timegrid.New([]float64{0, 0.5, 1.0})
	require.NoError(t, err)

	p := NewPath(grid)
	require.Equal(t, 2, p.Len())
	copy(p.Drift(), []float64{0.01, 0.02})
	copy(p.Diffusion(), []float64{0.1, -0.05})

	require.InDelta(t, 0.11, p.Value(0), 1e-15)
	levels := p.Levels(100)
	require.Len(t, levels, 3)
	require.Equal(t, 100.0, levels[0])
	require.InDelta(t, 100*math.Exp(0.11), levels[1], 1e-10)
	require.InDelta(t, 100*math.Exp(0.08), levels[2], 1e-10)
	require.InDelta(t, 0.08, p.LogReturn(), 1e-15)
}

func TestMultiPath(t *testing.T) {
	grid, err := timegrid.Uniform(1, 4)
	require.NoError(t, err)

	mp := NewMultiPath(3, grid)
	require.Equal(t, 3, mp.AssetCount())
	require.Equal(t, 4, mp.PathSize())
	for j := 0; j < 3; j++ {
		require.Same(t, grid, mp.Asset(j).TimeGrid())
	}
	require.NotSame(t, mp.Asset(0), mp.Asset(1))

	require.Equal(t, 0, NewMultiPath(0, grid).PathSize())
}
