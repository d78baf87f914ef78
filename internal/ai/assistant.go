package ai

import (
	"context"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/matching"
)

type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

// Matcher judges how well a ranked posting fits the user profile. It only
// annotates results; it never removes them.
type Matcher interface {
	Evaluate(ctx context.Context, query *matching.UserQuery, result *jobs.MatchResult) (*FitAssessment, error)
}
