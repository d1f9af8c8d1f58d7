package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/trialtab/internal/analysis"
	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/parser"
	"github.com/nao1215/trialtab/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [dataset]",
		Short: "Summarize noticing rates from parsed CSV files",
		Long: `Analyze loads the CSV files written by parse and reports:

- the share of subjects who noticed the probe, per parent (Grouped, Alone)
- the same share per scene and parent
- the number of counting trials per subject and per scene

The CSV paths are derived from the dataset path, or given explicitly with
--noticed and --counts.

Examples:
  # Summarize the files written by "trialtab parse data/pilot.txt"
  trialtab analyze data/pilot.txt

  # Sort the scene table by noticing rate, highest first
  trialtab analyze --sort mean --desc data/pilot.txt

  # Write a Markdown report
  trialtab analyze -m -o reports/pilot.md data/pilot.txt

  # Read CSV files from other locations
  trialtab analyze --noticed n.csv --counts c.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().String("noticed", "", "Noticed CSV path (default: derived from dataset)")
	cmd.Flags().String("counts", "", "Counts CSV path (default: derived from dataset)")
	cmd.Flags().StringP("sort", "s", config.SortScene,
		"Sort the scene table by scene, parent, mean or n")
	cmd.Flags().Bool("desc", false, "Sort the scene table in descending order")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("tee", false,
		"With --output, also print the plain-text summary to stdout")

	return cmd
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAnalyzeConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	return runAnalyze(cmd.OutOrStdout(), cfg, logger)
}

// buildAnalyzeConfig creates a Config from the analyze command flags.
func buildAnalyzeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getPersistentBool(cmd, "log-json")
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}

	var err error
	if cfg.NoticedPath, err = cmd.Flags().GetString("noticed"); err != nil {
		return nil, err
	}
	if cfg.CountsPath, err = cmd.Flags().GetString("counts"); err != nil {
		return nil, err
	}
	if cfg.SortBy, err = cmd.Flags().GetString("sort"); err != nil {
		return nil, err
	}
	if cfg.Descending, err = cmd.Flags().GetBool("desc"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Tee, err = cmd.Flags().GetBool("tee"); err != nil {
		return nil, err
	}

	counts, noticed := parser.OutputPaths(cfg.Dataset)
	if cfg.NoticedPath == "" && cfg.Dataset != "" {
		cfg.NoticedPath = noticed
	}
	if cfg.CountsPath == "" && cfg.Dataset != "" {
		cfg.CountsPath = counts
	}
	return cfg, nil
}

// runAnalyze loads both datasets, summarizes them and writes the report.
func runAnalyze(out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	notices, err := analysis.LoadNotices(cfg.NoticedPath)
	if err != nil {
		return err
	}
	counts, err := analysis.LoadCounts(cfg.CountsPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded datasets",
		"noticed", cfg.NoticedPath, "subjects", notices.Len(),
		"counts", cfg.CountsPath, "trials", counts.Len(),
	)

	name := cfg.Dataset
	if name == "" {
		name = cfg.NoticedPath
	}
	summary, err := analysis.Summarize(name, notices, counts)
	if err != nil {
		return fmt.Errorf("failed to summarize %s: %w", name, err)
	}
	if err := analysis.SortRows(summary.BySceneParent, cfg.SortBy, cfg.Descending); err != nil {
		return err
	}

	return outputReport(out, cfg, summary)
}

// outputReport writes the summary in the requested format to the report
// file, or to out when no file is configured. With cfg.Tee the plain-text
// summary is written to out as well.
func outputReport(out io.Writer, cfg *config.Config, summary *analysis.Summary) error {
	terminal := out
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
	if cfg.Tee && cfg.ReportFile != "" {
		w = report.NewMultiWriter(w, report.NewSimpleWriter(terminal, report.WithVerbose(cfg.Verbose)))
	}

	_, err := w.Write(summary)
	return err
}
