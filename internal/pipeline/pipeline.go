package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/trialtab/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each one receiving the run as filled in
// by the previous steps.
type Step interface {
	// Do executes the step. Returning an error stops the pipeline.
	Do(ctx context.Context, run *model.ParseRun) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence.
// Cancellation is checked before each step; a step that has started runs
// to completion. The first step error (or ctx.Err()) stops the run and is
// recorded in it.
func (p *Pipeline) Execute(ctx context.Context, run *model.ParseRun) error {
	logger := p.logger.With("run", run.ID)
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			p.record(run, err)
			return err
		}

		logger.Debug("executing step",
			"step", step.Name(),
			"dataset", run.Dataset,
		)

		if err := step.Do(ctx, run); err != nil {
			logger.Error("step failed",
				"step", step.Name(),
				"dataset", run.Dataset,
				"error", err,
			)
			p.record(run, err)
			return err
		}

		logger.Debug("step completed", "step", step.Name())
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}
	return nil
}

// record stores the error that stopped the run.
func (p *Pipeline) record(run *model.ParseRun, err error) {
	if run.Error != nil {
		return
	}
	run.Error = err
	run.ErrorMessage = err.Error()
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
