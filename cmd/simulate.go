package cmd

import (
	"io"
	"log/slog"
	"time"

	"github.com/banachtech/spotted-zebra/mc"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate correlated paths and summarise terminal levels",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	cmd.Flags().Int("paths", 0, "number of paths (overrides config)")
	cmd.Flags().Int("workers", 0, "number of parallel generators (overrides config)")
	cmd.Flags().Uint64("seed", 0, "base seed, worker w uses seed+w (overrides config)")
	cmd.Flags().BoolP("quiet", "q", false, "hide the progress bar")
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	runID := uuid.NewString()
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel).With(slog.String("run_id", runID))

	factory, err := cfg.Factory(logger)
	if err != nil {
		return err
	}
	procs, err := cfg.Processes()
	if err != nil {
		return err
	}
	spots := make([]float64, len(procs))
	for i, p := range procs {
		spots[i] = p.X0()
	}

	workers := min(cfg.Workers, cfg.Paths)
	acc := make([]*accumulator, workers)
	for w := range acc {
		acc[w] = newAccumulator(spots, cfg.Paths/workers+1)
	}

	logger.Info("simulation starting",
		slog.Int("paths", cfg.Paths),
		slog.Int("workers", workers),
		slog.Uint64("seed", cfg.Seed),
		slog.String("factorization", cfg.Factorization),
	)

	bar := progressBar(cmd.ErrOrStderr(), cfg.Paths, !quiet)
	start := time.Now()
	err = mc.Simulate(cmd.Context(), cfg.Paths, workers, factory, func(worker int, s *mc.Sample) error {
		acc[worker].add(s)
		return bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		logger.Error("simulation failed", slog.String("error", err.Error()))
		return err
	}
	elapsed := time.Since(start)
	logger.Info("simulation finished", slog.Duration("elapsed", elapsed))

	grid, err := cfg.TimeGrid()
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), summaryHeader{
		RunID:   runID,
		Paths:   cfg.Paths,
		Workers: workers,
		Steps:   grid.Steps(),
		Horizon: grid.End(),
		Elapsed: elapsed,
	}, cfg.Tickers(), spots, merge(acc))
}

func progressBar(w io.Writer, length int, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("paths"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
