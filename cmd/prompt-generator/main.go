package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/prompt-generator/internal/config"
	"github.com/joestump/prompt-generator/internal/logging"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	a := &app{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "prompt-generator",
		Short:         "A form-driven prompt generator",
		Long:          "Prompt Generator turns a few structured fields into a ready-to-use prompt written by an LLM.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides PG_LOG_LEVEL")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
