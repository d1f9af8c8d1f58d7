package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the application name used for XDG directory paths.
const AppName = "trialtab"

// Sort columns accepted by the analysis scene table.
const (
	SortScene  = "scene"
	SortParent = "parent"
	SortMean   = "mean"
	SortN      = "n"
)

// Config holds all command options for trialtab.
// It is populated from CLI flags and passed through the application
// explicitly rather than read from global state.
type Config struct {
	// Dataset is the path of the newline-delimited JSON export.
	// Output CSV paths are derived from it.
	Dataset string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the current directory, the XDG config
	// directory and the user's home directory.
	ConfigFilePath string

	// Layouts holds the layout configuration loaded from the config file.
	Layouts *File

	// NoticedPath overrides the noticed CSV read by the analysis.
	NoticedPath string

	// CountsPath overrides the counts CSV read by the analysis.
	CountsPath string

	// JSONReport enables JSON summary output instead of plain text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown summary output instead of plain text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the summary.
	// When set, the summary is written to this file instead of stdout.
	ReportFile string

	// Tee also prints the plain-text summary to stdout when ReportFile is set.
	Tee bool

	// SortBy is the column the scene table is sorted by.
	SortBy string

	// Descending reverses the scene table order.
	Descending bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Layouts: &File{Datasets: make(map[string]LayoutOverride)},
		SortBy:  SortScene,
	}
}

// Layout returns the layout for the configured dataset.
func (c *Config) Layout() Layout {
	return c.Layouts.GetLayout(c.Dataset)
}

// XDGConfigDir returns the XDG config directory for trialtab.
// On Linux: ~/.config/trialtab
// On macOS: ~/Library/Application Support/trialtab
// On Windows: %APPDATA%\trialtab
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Dataset == "" && (c.NoticedPath == "" || c.CountsPath == "") {
		return ErrNoDataset
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.SortBy {
	case SortScene, SortParent, SortMean, SortN:
	default:
		return ErrInvalidSortColumn
	}

	return c.Layout().Validate()
}
