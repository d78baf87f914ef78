package matching

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
)

type rankFilter struct {
	logger *zap.Logger

	disabled bool
	reason   string
}

// NewRank creates the final step: dedup by canonical id, then a
// deterministic total order. Running it twice on its own output is a no-op.
func NewRank(logger *zap.Logger) Filter {
	return &rankFilter{logger: logger}
}

func (f *rankFilter) Name() string { return "rank" }

func (f *rankFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *rankFilter) IsEnabled() bool { return !f.disabled }

func (f *rankFilter) Validate() error { return nil }

func (f *rankFilter) Apply(_ context.Context, r *jobs.Results) (*jobs.Results, Step, error) {
	initial := r.Len()

	// Duplicates arise when the source returns the same posting on several
	// pages. Keep the first occurrence.
	seen := make(map[string]struct{}, initial)
	deduped := make([]*jobs.MatchResult, 0, initial)
	for _, result := range r.Items {
		if _, ok := seen[result.Posting.ID]; ok {
			continue
		}
		seen[result.Posting.ID] = struct{}{}
		deduped = append(deduped, result)
	}
	r.Items = deduped

	// Most relevant, closest, most urgent. Stable so equal entries keep
	// input order.
	sort.SliceStable(r.Items, func(i, j int) bool {
		return less(r.Items[i], r.Items[j])
	})

	if dropped := initial - r.Len(); dropped > 0 {
		f.logger.Info("removed duplicate postings", zap.Int("duplicates", dropped))
	}

	return r, Step{Initial: initial, Dropped: initial - r.Len(), Left: r.Len()}, nil
}

func less(a, b *jobs.MatchResult) bool {
	if a.RelevanceScore != b.RelevanceScore {
		return a.RelevanceScore > b.RelevanceScore
	}

	// Known distances before unknown, closest first.
	switch {
	case a.DistanceMiles != nil && b.DistanceMiles == nil:
		return true
	case a.DistanceMiles == nil && b.DistanceMiles != nil:
		return false
	case a.DistanceMiles != nil && b.DistanceMiles != nil:
		if *a.DistanceMiles != *b.DistanceMiles {
			return *a.DistanceMiles < *b.DistanceMiles
		}
	}

	// Soonest closing first, undated last.
	switch {
	case a.Posting.ClosingDate != nil && b.Posting.ClosingDate == nil:
		return true
	case a.Posting.ClosingDate == nil && b.Posting.ClosingDate != nil:
		return false
	case a.Posting.ClosingDate != nil && b.Posting.ClosingDate != nil:
		if !a.Posting.ClosingDate.Equal(*b.Posting.ClosingDate) {
			return a.Posting.ClosingDate.Before(*b.Posting.ClosingDate)
		}
	}

	return false
}
