package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
)

// Filter represents a single step of the matching pipeline.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, r *jobs.Results) (*jobs.Results, Step, error)
}

// Step describes the result of executing a pipeline step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// StepReport pairs a step outcome with the filter that produced it.
type StepReport struct {
	Name string
	Step
}

// Summary is the degradation metadata threaded through a pipeline run. The
// caller must surface it: results are never silently partial.
type Summary struct {
	// Degraded is true when postings came from the fallback dataset.
	Degraded bool
	// GeocodingFailed is true when the origin address could not be
	// resolved and the radius filter was skipped.
	GeocodingFailed bool
	Source          string
	Steps           []StepReport
}

// degradationReporter is implemented by filters that can skip themselves
// and need to surface that to the caller.
type degradationReporter interface {
	Degraded() bool
}

// Pipeline executes filters sequentially over a request-scoped result set.
type Pipeline struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Pipeline {
	return &Pipeline{steps: steps, logger: logger}
}

// Run validates all enabled steps first, then applies them in order.
func (p *Pipeline) Run(ctx context.Context, r *jobs.Results, summary *Summary) (*jobs.Results, error) {
	if summary == nil {
		summary = &Summary{}
	}

	for _, step := range p.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range p.steps {
		if !step.IsEnabled() {
			p.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		p.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		r = next
		summary.Steps = append(summary.Steps, StepReport{Name: step.Name(), Step: info})

		if reporter, ok := step.(degradationReporter); ok && reporter.Degraded() {
			summary.GeocodingFailed = true
		}
	}

	return r, nil
}
