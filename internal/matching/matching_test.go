package matching

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
)

type fakeFilter struct {
	name        string
	disabled    bool
	validateErr error
	applyErr    error
	degraded    bool

	applied int
}

func (f *fakeFilter) Name() string    { return f.name }
func (f *fakeFilter) Disable(string)  { f.disabled = true }
func (f *fakeFilter) IsEnabled() bool { return !f.disabled }
func (f *fakeFilter) Validate() error { return f.validateErr }
func (f *fakeFilter) Degraded() bool  { return f.degraded }

func (f *fakeFilter) Apply(_ context.Context, r *jobs.Results) (*jobs.Results, Step, error) {
	f.applied++
	if f.applyErr != nil {
		return nil, Step{}, f.applyErr
	}
	return r, Step{Initial: r.Len(), Left: r.Len()}, nil
}

func pipelineResults() *jobs.Results {
	return &jobs.Results{Items: []*jobs.MatchResult{
		{Posting: &jobs.Posting{ID: "a"}},
	}}
}

func TestPipelineRunsStepsInOrder(t *testing.T) {
	first := &fakeFilter{name: "first"}
	second := &fakeFilter{name: "second"}

	summary := &Summary{}
	pipeline := New([]Filter{first, second}, zap.NewNop())

	out, err := pipeline.Run(context.Background(), pipelineResults(), summary)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out.Len() != 1 {
		t.Fatalf("expected 1 result, got %d", out.Len())
	}
	if first.applied != 1 || second.applied != 1 {
		t.Fatalf("expected each step applied once, got %d and %d", first.applied, second.applied)
	}
	if len(summary.Steps) != 2 || summary.Steps[0].Name != "first" || summary.Steps[1].Name != "second" {
		t.Fatalf("unexpected step reports: %+v", summary.Steps)
	}
}

func TestPipelineSkipsDisabledSteps(t *testing.T) {
	skipped := &fakeFilter{name: "skipped"}
	skipped.Disable("not needed")
	active := &fakeFilter{name: "active"}

	pipeline := New([]Filter{skipped, active}, zap.NewNop())

	if _, err := pipeline.Run(context.Background(), pipelineResults(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if skipped.applied != 0 {
		t.Fatal("expected disabled step to be skipped")
	}
	if active.applied != 1 {
		t.Fatal("expected enabled step to run")
	}
}

func TestPipelineValidatesBeforeApplying(t *testing.T) {
	bad := &fakeFilter{name: "bad", validateErr: errors.New("misconfigured")}
	after := &fakeFilter{name: "after"}

	pipeline := New([]Filter{after, bad}, zap.NewNop())

	if _, err := pipeline.Run(context.Background(), pipelineResults(), nil); err == nil {
		t.Fatal("expected validation error")
	}

	if after.applied != 0 {
		t.Fatal("expected no step to apply when validation fails")
	}
}

func TestPipelineStopsOnApplyError(t *testing.T) {
	failing := &fakeFilter{name: "failing", applyErr: errors.New("boom")}
	after := &fakeFilter{name: "after"}

	pipeline := New([]Filter{failing, after}, zap.NewNop())

	_, err := pipeline.Run(context.Background(), pipelineResults(), nil)
	if err == nil {
		t.Fatal("expected apply error")
	}

	if after.applied != 0 {
		t.Fatal("expected later steps to be skipped after a failure")
	}
}

func TestPipelineSurfacesDegradation(t *testing.T) {
	degraded := &fakeFilter{name: "degraded", degraded: true}

	summary := &Summary{}
	pipeline := New([]Filter{degraded}, zap.NewNop())

	if _, err := pipeline.Run(context.Background(), pipelineResults(), summary); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !summary.GeocodingFailed {
		t.Fatal("expected degradation to be surfaced in the summary")
	}
}
