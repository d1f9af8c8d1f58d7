package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/log"
)

// NewRootCmd creates the root command for trialtab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trialtab",
		Short: "Tabulate jsPsych inattentional blindness experiments",
		Long: `trialtab converts jsPsych result exports into flat CSV datasets.

Each line of an export is one subject's timeline. The parse command writes
a counts dataset (one row per counting trial) and a noticed dataset (one
row per subject) next to the export. The analyze command reads them back
and reports how often the probe was noticed.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON")

	cmd.AddCommand(NewParseCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool retrieves a root persistent flag as seen by cmd.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// newLogger creates the redacting logger selected by cfg.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewJSONLogger(w, cfg.Verbose)
	}
	return log.NewLogger(w, cfg.Verbose)
}

// loadLayouts resolves the configuration file named by cfg.ConfigFilePath
// (or found in the default locations) into cfg.Layouts.
func loadLayouts(cfg *config.Config) error {
	layouts, path, err := config.ResolveConfigFile(cfg.ConfigFilePath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.Layouts = layouts
	return nil
}
