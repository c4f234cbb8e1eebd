package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a run configuration and build one generator from it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			factory, err := cfg.Factory(logger)
			if err != nil {
				return err
			}
			gen, err := factory(0)
			if err != nil {
				return err
			}
			logger.Debug("configuration valid", slog.Int("assets", gen.AssetCount()))

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d assets, %d steps to t=%.4f, %s factorization\n",
				gen.AssetCount(), gen.TimeGrid().Steps(), gen.TimeGrid().End(), cfg.Factorization)
			return nil
		},
	}
}
