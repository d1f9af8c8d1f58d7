package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/pipeline"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <dataset>",
		Short: "Convert a jsPsych export into counts and noticed CSV files",
		Long: `Parse reads a jsPsych export with one subject timeline (a JSON array
of steps) per line, and writes two CSV files next to it:

  <name>_counts.csv   one row per counting trial
  <name>_noticed.csv  one row per subject

Subjects are numbered in input order, starting at 0. Lines that are not
valid JSON are reported and skipped; any other data problem stops the run
without writing either file.

Examples:
  # Parse an export with the built-in timeline layout
  trialtab parse data/target-ensemble-pilot-v2.txt

  # Use a configuration file describing a different layout
  trialtab parse -c layout.yaml data/pilot.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runParseCmd,
	}

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .trialtab in current, XDG config or home directory)")

	return cmd
}

// runParseCmd executes the parse command.
func runParseCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildParseConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runParse(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// buildParseConfig creates a Config from the parse command flags.
func buildParseConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getPersistentBool(cmd, "log-json")
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadLayouts(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runParse runs the parse pipeline for cfg.Dataset and reports the result.
func runParse(ctx context.Context, out, errOut io.Writer, cfg *config.Config, logger *slog.Logger) error {
	layout := cfg.Layout()
	p := pipeline.DefaultPipeline(layout, pipeline.WithLogger(logger))
	logger.Debug("starting parse",
		"dataset", cfg.Dataset,
		"steps", p.StepNames(),
		"config", cfg.ConfigFilePath,
		"quiz_offset", layout.QuizOffset,
		"trailing_steps", layout.TrailingSteps,
		"missing_quiz", layout.MissingQuiz,
	)

	run := model.NewParseRun(cfg.Dataset)
	err := p.Execute(ctx, run)

	// Skipped lines are reported even when a later step fails.
	warnSkipped(errOut, run.Skipped)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cfg.Dataset, err)
	}

	logger.Info("parse complete",
		"run", run.ID,
		"steps", run.PerformedSteps,
		"elapsed", time.Since(run.StartedAt),
	)
	if len(run.Excluded) > 0 {
		color.New(color.FgYellow).Fprintf(errOut, "Excluded %d subject(s) without a passed comprehension quiz\n", len(run.Excluded)) //nolint:errcheck
	}
	fmt.Fprintf(out, "Wrote %s (%d rows)\n", run.CountsPath, run.Counts.Len())
	fmt.Fprintf(out, "Wrote %s (%d rows)\n", run.NoticedPath, run.Notices.Len())
	return nil
}

// warnSkipped prints one line per input line that could not be decoded.
func warnSkipped(w io.Writer, skipped []int) {
	warn := color.New(color.FgYellow)
	for _, line := range skipped {
		warn.Fprintf(w, "Could not interpret entry %d\n", line) //nolint:errcheck
	}
}
