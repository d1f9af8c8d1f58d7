package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/trialtab/internal/config"
	"github.com/nao1215/trialtab/internal/model"
	"github.com/nao1215/trialtab/internal/parser"
	"github.com/nao1215/trialtab/internal/table"
)

// ErrNoTables is returned by WriteStep when tabulation has not run.
var ErrNoTables = errors.New("no tables to write")

// DecodeStep reads the dataset file and decodes one subject per line.
// Lines that are not valid JSON end up in run.Skipped.
type DecodeStep struct {
	logger *slog.Logger
}

// DecodeStepOption configures a DecodeStep.
type DecodeStepOption func(*DecodeStep)

// WithDecodeLogger sets a custom logger for the decode step.
func WithDecodeLogger(logger *slog.Logger) DecodeStepOption {
	return func(s *DecodeStep) {
		s.logger = logger
	}
}

// NewDecodeStep creates a new decode step.
func NewDecodeStep(opts ...DecodeStepOption) *DecodeStep {
	s := &DecodeStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DecodeStep) Name() string {
	return "decode"
}

// Do executes the decode step.
func (s *DecodeStep) Do(_ context.Context, run *model.ParseRun) error {
	f, err := os.Open(run.Dataset)
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	subjects, skipped, err := parser.Decode(f, s.logger)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", run.Dataset, err)
	}
	run.Subjects = subjects
	run.Skipped = skipped

	s.logger.Info("decoded dataset",
		"dataset", run.Dataset,
		"subjects", len(subjects),
		"skipped", len(skipped),
	)
	return nil
}

// TabulateStep builds the counts and noticed tables from decoded subjects.
type TabulateStep struct {
	layout config.Layout
	logger *slog.Logger
}

// TabulateStepOption configures a TabulateStep.
type TabulateStepOption func(*TabulateStep)

// WithTabulateLogger sets a custom logger for the tabulate step.
func WithTabulateLogger(logger *slog.Logger) TabulateStepOption {
	return func(s *TabulateStep) {
		s.logger = logger
	}
}

// NewTabulateStep creates a tabulate step for the given timeline layout.
func NewTabulateStep(layout config.Layout, opts ...TabulateStepOption) *TabulateStep {
	s := &TabulateStep{
		layout: layout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *TabulateStep) Name() string {
	return "tabulate"
}

// Do executes the tabulate step.
func (s *TabulateStep) Do(ctx context.Context, run *model.ParseRun) error {
	res, err := parser.Tabulate(run.Subjects, s.layout, s.logger)
	if err != nil {
		return err
	}
	run.Counts = res.Counts
	run.Notices = res.Notices
	run.Excluded = res.Excluded

	s.logger.InfoContext(ctx, "tabulated subjects",
		"count_rows", res.Counts.Len(),
		"notice_rows", res.Notices.Len(),
		"excluded", len(res.Excluded),
	)
	return nil
}

// WriteStep writes the counts and noticed tables as CSV.
// Both tables are written to temporary siblings first and only then
// renamed into place. If either file cannot be replaced, the one already
// replaced is restored, so a failed run leaves existing outputs untouched.
type WriteStep struct {
	logger *slog.Logger
}

// WriteStepOption configures a WriteStep.
type WriteStepOption func(*WriteStep)

// WithWriteLogger sets a custom logger for the write step.
func WithWriteLogger(logger *slog.Logger) WriteStepOption {
	return func(s *WriteStep) {
		s.logger = logger
	}
}

// NewWriteStep creates a new write step.
func NewWriteStep(opts ...WriteStepOption) *WriteStep {
	s := &WriteStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do executes the write step. Output paths default to the ones derived
// from the dataset name. A run that already carries an error is not written.
func (s *WriteStep) Do(_ context.Context, run *model.ParseRun) error {
	if run.Error != nil {
		return fmt.Errorf("refusing to write outputs: %w", run.Error)
	}
	if run.Counts == nil || run.Notices == nil {
		return ErrNoTables
	}

	counts, noticed := parser.OutputPaths(run.Dataset)
	if run.CountsPath == "" {
		run.CountsPath = counts
	}
	if run.NoticedPath == "" {
		run.NoticedPath = noticed
	}

	files := []*stagedFile{
		{path: run.CountsPath},
		{path: run.NoticedPath},
	}
	defer func() {
		for _, f := range files {
			f.cleanup()
		}
	}()

	if err := files[0].stage(run.Counts); err != nil {
		return err
	}
	if err := files[1].stage(run.Notices); err != nil {
		return err
	}
	if err := commit(files); err != nil {
		return err
	}

	s.logger.Info("wrote counts", "path", run.CountsPath, "rows", run.Counts.Len())
	s.logger.Info("wrote noticed", "path", run.NoticedPath, "rows", run.Notices.Len())
	return nil
}

// stagedFile is an output written to a temporary sibling of path.
type stagedFile struct {
	path     string
	tmp      string
	backup   string
	replaced bool
}

// stage writes t to a temporary file in the directory of f.path.
func (f *stagedFile) stage(t *table.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.path, err)
	}
	f.tmp = tmp.Name()

	if err := t.WriteCSV(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := os.Chmod(f.tmp, 0o644); err != nil { //nolint:gosec // outputs are shared data files
		return fmt.Errorf("failed to set permissions on %s: %w", f.path, err)
	}
	return nil
}

// replace moves an existing regular file at f.path aside and renames the
// staged file into its place.
func (f *stagedFile) replace() error {
	if info, err := os.Lstat(f.path); err == nil && info.Mode().IsRegular() {
		backup := f.tmp + ".old"
		if err := os.Rename(f.path, backup); err != nil {
			return fmt.Errorf("failed to replace %s: %w", f.path, err)
		}
		f.backup = backup
	}
	if err := os.Rename(f.tmp, f.path); err != nil {
		f.restore()
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	f.tmp = ""
	f.replaced = true
	return nil
}

// restore puts the previous file back, or removes the new one if there
// was none. A backup that cannot be put back stays on disk.
func (f *stagedFile) restore() {
	wasReplaced := f.replaced
	f.replaced = false
	if f.backup != "" {
		if err := os.Rename(f.backup, f.path); err == nil {
			f.backup = ""
		}
		return
	}
	if wasReplaced {
		_ = os.Remove(f.path)
	}
}

// cleanup removes the staged file if it was never committed, and the
// backup of a file that was replaced for good.
func (f *stagedFile) cleanup() {
	if f.tmp != "" {
		_ = os.Remove(f.tmp)
	}
	if f.replaced && f.backup != "" {
		_ = os.Remove(f.backup)
	}
}

// commit replaces every output or none of them.
func commit(files []*stagedFile) error {
	for i, f := range files {
		if err := f.replace(); err != nil {
			for j := i - 1; j >= 0; j-- {
				files[j].restore()
			}
			return err
		}
	}
	return nil
}

// DefaultPipeline creates the standard parse pipeline: decode, tabulate
// and write. The pipeline logger is shared with every step.
func DefaultPipeline(layout config.Layout, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewDecodeStep(WithDecodeLogger(p.logger)),
		NewTabulateStep(layout, WithTabulateLogger(p.logger)),
		NewWriteStep(WithWriteLogger(p.logger)),
	)
	return p
}
