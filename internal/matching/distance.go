package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/geo"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
)

const (
	geocodeAttempts = 3
	geocodeDelay    = 2 * time.Second
)

// sleep is swapped in tests.
var sleep = time.Sleep

type distanceFilter struct {
	query    *UserQuery
	geocoder geo.Geocoder
	logger   *zap.Logger

	disabled bool
	reason   string

	// geocodingFailed is set when the origin could not be resolved and the
	// radius check was skipped; the pipeline surfaces it in the summary.
	geocodingFailed bool
}

// NewDistance creates the step that attaches great-circle distances and
// enforces the radius. Retries against the geocoder are owned here, not by
// the geocoder itself.
func NewDistance(query *UserQuery, geocoder geo.Geocoder, logger *zap.Logger) Filter {
	return &distanceFilter{query: query, geocoder: geocoder, logger: logger}
}

func (f *distanceFilter) Name() string { return "distance" }

func (f *distanceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *distanceFilter) IsEnabled() bool { return !f.disabled }

func (f *distanceFilter) Degraded() bool { return f.geocodingFailed }

func (f *distanceFilter) Validate() error {
	if f.geocoder == nil {
		return fmt.Errorf("geocoder is required")
	}
	return nil
}

func (f *distanceFilter) Apply(ctx context.Context, r *jobs.Results) (*jobs.Results, Step, error) {
	initial := r.Len()

	origin, err := f.geocodeOrigin(ctx)
	if err != nil {
		// Radius filtering is unavailable; keep everything rather than
		// silently dropping postings we cannot verify.
		f.geocodingFailed = true
		f.logger.Warn("geocoding failed, skipping location filtering",
			zap.String("address", f.query.Address),
			zap.Error(err),
		)
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	includeAll := f.query.IncludeAllLocations

	kept := make([]*jobs.MatchResult, 0, initial)
	for _, result := range r.Items {
		if result.Posting.Coordinates == nil {
			// Cannot verify the radius; excluding is the safe default.
			if includeAll {
				kept = append(kept, result)
			}
			continue
		}

		distance := geo.DistanceMiles(*origin, *result.Posting.Coordinates)
		if !includeAll && distance > f.query.RadiusMiles {
			continue
		}

		result.DistanceMiles = &distance
		kept = append(kept, result)
	}

	r.Items = kept

	return r, Step{Initial: initial, Dropped: initial - r.Len(), Left: r.Len()}, nil
}

// geocodeOrigin resolves the user address with a bounded retry budget and a
// fixed inter-attempt delay.
func (f *distanceFilter) geocodeOrigin(ctx context.Context) (*geo.Point, error) {
	var lastErr error

	for attempt := 1; attempt <= geocodeAttempts; attempt++ {
		if attempt > 1 {
			sleep(geocodeDelay)
		}

		point, err := f.geocoder.Geocode(ctx, f.query.Address)
		if err == nil {
			return point, nil
		}

		lastErr = err
		f.logger.Debug("geocoding attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return nil, fmt.Errorf("geocode origin after %d attempts: %w", geocodeAttempts, lastErr)
}
