package mc

import (
	"math"

	"github.com/banachtech/spotted-zebra/timegrid"
	"gonum.org/v1/gonum/floats"
)

// Path holds the per-step log-increments of one asset, split into the drift
// and the diffusion contribution of each step.
type Path struct {
	grid      *timegrid.TimeGrid
	drift     []float64
	diffusion []float64
}

// NewPath allocates a zero path with one increment per step of grid.
func NewPath(grid *timegrid.TimeGrid) *Path {
	return &Path{
		grid:      grid,
		drift:     make([]float64, grid.Steps()),
		diffusion: make([]float64, grid.Steps()),
	}
}

// Number of increments, equal to the number of grid steps.
func (p *Path) Len() int { return len(p.drift) }

func (p *Path) TimeGrid() *timegrid.TimeGrid { return p.grid }

// Drift returns the drift increments. The slice aliases the path storage.
func (p *Path) Drift() []float64 { return p.drift }

// Diffusion returns the diffusion increments. The slice aliases the path storage.
func (p *Path) Diffusion() []float64 { return p.diffusion }

// Value returns the total log-increment of step i.
func (p *Path) Value(i int) float64 { return p.drift[i] + p.diffusion[i] }

// Levels rebuilds the asset trajectory on every grid point starting from x0.
func (p *Path) Levels(x0 float64) []float64 {
	out := make([]float64, p.Len()+1)
	out[0] = x0
	for i := range p.drift {
		out[i+1] = out[i] * math.Exp(p.drift[i]+p.diffusion[i])
	}
	return out
}

// LogReturn is the log of the terminal level over the initial level.
func (p *Path) LogReturn() float64 {
	return floats.Sum(p.drift) + floats.Sum(p.diffusion)
}

// MultiPath is a basket of correlated paths sharing one time grid.
type MultiPath struct {
	paths []*Path
}

// NewMultiPath allocates nAssets paths on grid.
func NewMultiPath(nAssets int, grid *timegrid.TimeGrid) *MultiPath {
	mp := &MultiPath{paths: make([]*Path, nAssets)}
	for j := range mp.paths {
		mp.paths[j] = NewPath(grid)
	}
	return mp
}

func (mp *MultiPath) AssetCount() int { return len(mp.paths) }

// Number of steps of each path
func (mp *MultiPath) PathSize() int {
	if len(mp.paths) == 0 {
		return 0
	}
	return mp.paths[0].Len()
}

func (mp *MultiPath) Asset(j int) *Path { return mp.paths[j] }

// Sample is a weighted multipath.
type Sample struct {
	Value  *MultiPath
	Weight float64
}
