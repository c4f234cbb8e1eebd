package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the TOML file at path over Defaults and applies ZEBRA_*
// environment overrides. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	// .env is optional
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	env := envOverrides{}

	env.setStr(&cfg.LogLevel, "ZEBRA_LOG_LEVEL")
	env.setUint64(&cfg.Seed, "ZEBRA_SEED")
	env.setInt(&cfg.Paths, "ZEBRA_PATHS")
	env.setInt(&cfg.Workers, "ZEBRA_WORKERS")
	env.setStr(&cfg.Factorization, "ZEBRA_FACTORIZATION")
	env.setFloat64(&cfg.ImportanceShift, "ZEBRA_IMPORTANCE_SHIFT")

	env.setStr(&cfg.Grid.Start, "ZEBRA_GRID_START")
	env.setInt(&cfg.Grid.TenorMonths, "ZEBRA_GRID_TENOR_MONTHS")
	env.setInt(&cfg.Grid.FrequencyMonths, "ZEBRA_GRID_FREQUENCY_MONTHS")
	env.setFloat64(&cfg.Grid.Horizon, "ZEBRA_GRID_HORIZON")
	env.setInt(&cfg.Grid.Steps, "ZEBRA_GRID_STEPS")

	cfg.envErrs = env.errs
}

// envOverrides applies set variables and remembers the ones that did not
// parse, so Validate can report them.
type envOverrides struct {
	errs []string
}

func (e *envOverrides) fail(key, v, kind string) {
	e.errs = append(e.errs, fmt.Sprintf("%s=%q is not %s", key, v, kind))
}

func (e *envOverrides) setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (e *envOverrides) setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, "an integer")
		return
	}
	*dst = n
}

func (e *envOverrides) setUint64(dst *uint64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		e.fail(key, v, "an unsigned integer")
		return
	}
	*dst = n
}

func (e *envOverrides) setFloat64(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, "a number")
		return
	}
	*dst = f
}
