package cmd

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/banachtech/spotted-zebra/mc"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// accumulator collects terminal levels for one worker. Only that worker's
// goroutine touches it.
type accumulator struct {
	spots     []float64
	levels    [][]float64
	logReturn [][]float64
	weights   []float64
}

func newAccumulator(spots []float64, capacity int) *accumulator {
	a := &accumulator{
		spots:     spots,
		levels:    make([][]float64, len(spots)),
		logReturn: make([][]float64, len(spots)),
		weights:   make([]float64, 0, capacity),
	}
	for j := range spots {
		a.levels[j] = make([]float64, 0, capacity)
		a.logReturn[j] = make([]float64, 0, capacity)
	}
	return a
}

func (a *accumulator) add(s *mc.Sample) {
	for j := range a.spots {
		r := s.Value.Asset(j).LogReturn()
		a.logReturn[j] = append(a.logReturn[j], r)
		a.levels[j] = append(a.levels[j], a.spots[j]*math.Exp(r))
	}
	a.weights = append(a.weights, s.Weight)
}

// merge concatenates worker results in worker order.
func merge(acc []*accumulator) *accumulator {
	if len(acc) == 0 {
		return newAccumulator(nil, 0)
	}
	out := newAccumulator(acc[0].spots, 0)
	for _, a := range acc {
		for j := range out.spots {
			out.levels[j] = append(out.levels[j], a.levels[j]...)
			out.logReturn[j] = append(out.logReturn[j], a.logReturn[j]...)
		}
		out.weights = append(out.weights, a.weights...)
	}
	return out
}

// correlation returns the weighted correlation matrix of terminal log returns.
func (a *accumulator) correlation() *mat.SymDense {
	n, m := len(a.weights), len(a.spots)
	data := mat.NewDense(n, m, nil)
	for j := 0; j < m; j++ {
		data.SetCol(j, a.logReturn[j])
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, a.weights)
	return &corr
}

type summaryHeader struct {
	RunID   string
	Paths   int
	Workers int
	Steps   int
	Horizon float64
	Elapsed time.Duration
}

func writeSummary(w io.Writer, h summaryHeader, tickers []string, spots []float64, a *accumulator) error {
	fmt.Fprintf(w, "run %s: %d paths, %d workers, %d steps to t=%.4f in %s\n\n",
		h.RunID, h.Paths, h.Workers, h.Steps, h.Horizon, h.Elapsed.Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "asset\tspot\tmean\tstd dev\tmean log return\t")
	for j, t := range tickers {
		mean, std := stat.MeanStdDev(a.levels[j], a.weights)
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.6f\t\n", t, spots[j], mean, std, stat.Mean(a.logReturn[j], a.weights))
	}
	mean, std := stat.MeanStdDev(a.weights, nil)
	fmt.Fprintf(tw, "weight\t\t%.6f\t%.6f\t\t\n", mean, std)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(tickers) < 2 || len(a.weights) < 2 {
		return nil
	}
	fmt.Fprintln(w, "\nlog return correlation")
	corr := a.correlation()
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\t")
	for _, t := range tickers {
		fmt.Fprintf(tw, "%s\t", t)
	}
	fmt.Fprintln(tw)
	for i, t := range tickers {
		fmt.Fprintf(tw, "%s\t", t)
		for j := range tickers {
			fmt.Fprintf(tw, "%.4f\t", corr.At(i, j))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
