// Package config defines the configuration of a simulation run and the
// validation applied to it before any generator is built.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/banachtech/spotted-zebra/calendar"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is populated from a TOML file and then overridden by ZEBRA_*
// environment variables.
type Config struct {
	LogLevel      string `toml:"log_level"`
	Seed          uint64 `toml:"seed"`
	Paths         int    `toml:"paths"`
	Workers       int    `toml:"workers"`
	Factorization string `toml:"factorization"`
	// ImportanceShift, when non-zero, draws every Gaussian component from
	// N(shift, 1) and reweights each path by the likelihood ratio.
	ImportanceShift float64       `toml:"importance_shift"`
	Grid            GridConfig    `toml:"grid"`
	Assets          []AssetConfig `toml:"assets"`
	Correlation     [][]float64   `toml:"correlation"`

	// ZEBRA_* values that failed to parse
	envErrs []string
}

// GridConfig selects either a business-day schedule (Start set) or a
// uniform grid of Steps steps over Horizon years.
type GridConfig struct {
	Start           string  `toml:"start"`
	TenorMonths     int     `toml:"tenor_months"`
	FrequencyMonths int     `toml:"frequency_months"`
	ObservationOnly bool    `toml:"observation_only"`
	Horizon         float64 `toml:"horizon"`
	Steps           int     `toml:"steps"`
}

type AssetConfig struct {
	Ticker string  `toml:"ticker"`
	Model  string  `toml:"model"`
	Spot   float64 `toml:"spot"`
	Mu     float64 `toml:"mu"`
	Sigma  float64 `toml:"sigma"`
	Beta   float64 `toml:"beta"`
	Drift  float64 `toml:"drift"`
}

func Defaults() Config {
	return Config{
		LogLevel:      "info",
		Seed:          1,
		Paths:         10000,
		Workers:       4,
		Factorization: "eigen",
		Grid: GridConfig{
			Horizon: 1,
			Steps:   252,
		},
	}
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validModels = map[string]bool{
	"blackscholes": true,
	"cev":          true,
	"hyphyp":       true,
}

var validFactorizations = map[string]bool{
	"eigen":    true,
	"cholesky": true,
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	errs := append([]string(nil), c.envErrs...)

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if c.Paths < 1 {
		errs = append(errs, "paths must be >= 1")
	}
	if c.Workers < 1 {
		errs = append(errs, "workers must be >= 1")
	}
	if !validFactorizations[strings.ToLower(c.Factorization)] {
		errs = append(errs, fmt.Sprintf("unknown factorization %q (valid: eigen, cholesky)", c.Factorization))
	}
	if math.IsNaN(c.ImportanceShift) || math.IsInf(c.ImportanceShift, 0) {
		errs = append(errs, "importance_shift must be finite")
	}

	// Grid
	if c.Grid.Start != "" {
		if _, err := c.Grid.StartDate(); err != nil {
			errs = append(errs, fmt.Sprintf("grid: start %q is not a %s date", c.Grid.Start, calendar.Layout))
		}
		if c.Grid.FrequencyMonths < 1 {
			errs = append(errs, "grid: frequency_months must be >= 1")
		} else if c.Grid.TenorMonths < c.Grid.FrequencyMonths {
			errs = append(errs, "grid: tenor_months must be >= frequency_months")
		}
	} else {
		if !(c.Grid.Horizon > 0) || math.IsInf(c.Grid.Horizon, 0) {
			errs = append(errs, "grid: horizon must be > 0")
		}
		if c.Grid.Steps < 1 {
			errs = append(errs, "grid: steps must be >= 1")
		}
	}

	// Assets
	if len(c.Assets) == 0 {
		errs = append(errs, "at least one asset is required")
	}
	var tickers []string
	for _, a := range c.Assets {
		if t := strings.TrimSpace(a.Ticker); t != "" {
			tickers = append(tickers, t)
		}
	}
	if unique := calendar.NormalizeTickers(tickers); len(unique) != len(tickers) {
		errs = append(errs, fmt.Sprintf("duplicate tickers: %d given, %d distinct", len(tickers), len(unique)))
	}
	for i, a := range c.Assets {
		name := a.Ticker
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if !validModels[strings.ToLower(a.Model)] {
			errs = append(errs, fmt.Sprintf("asset %s: unknown model %q (valid: blackscholes, cev, hyphyp)", name, a.Model))
		}
		if !(a.Spot > 0) || math.IsInf(a.Spot, 0) {
			errs = append(errs, fmt.Sprintf("asset %s: spot must be > 0", name))
		}
		if a.Sigma < 0 || math.IsNaN(a.Sigma) {
			errs = append(errs, fmt.Sprintf("asset %s: sigma must be >= 0", name))
		}
		if strings.EqualFold(a.Model, "hyphyp") && a.Beta < 0 {
			errs = append(errs, fmt.Sprintf("asset %s: beta must be >= 0", name))
		}
	}

	// Correlation
	n := len(c.Assets)
	if len(c.Correlation) != n {
		errs = append(errs, fmt.Sprintf("correlation: want %d rows, got %d", n, len(c.Correlation)))
	} else {
		for i, row := range c.Correlation {
			if len(row) != n {
				errs = append(errs, fmt.Sprintf("correlation: row %d has %d columns, want %d", i, len(row), n))
				continue
			}
			for j, v := range row {
				switch {
				case math.IsNaN(v) || v < -1 || v > 1:
					errs = append(errs, fmt.Sprintf("correlation[%d][%d] = %v outside [-1, 1]", i, j, v))
				case i == j && v != 1:
					errs = append(errs, fmt.Sprintf("correlation[%d][%d] must be 1", i, j))
				case j < i && len(c.Correlation[j]) == n && c.Correlation[j][i] != v:
					errs = append(errs, fmt.Sprintf("correlation is not symmetric at (%d, %d)", i, j))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}
