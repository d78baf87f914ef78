package matching

import (
	"errors"
	"fmt"
	"strings"
)

// Radius bounds accepted without the include-all override.
const (
	MinRadiusMiles = 10
	MaxRadiusMiles = 500
)

// ErrInvalidQuery marks query parameters outside documented bounds. It is
// raised before any I/O happens.
var ErrInvalidQuery = errors.New("invalid query")

// VeteranStatus is the applicant's self-reported status. It never
// hard-excludes a posting, it only affects relevance scoring.
type VeteranStatus int

const (
	NotVeteran VeteranStatus = iota
	Veteran
	Disabled30Plus
	RetiredMilitary
	ActiveDutyTransitioning
)

var veteranStatusNames = map[VeteranStatus]string{
	NotVeteran:              "not a veteran",
	Veteran:                 "veteran",
	Disabled30Plus:          "disabled veteran (30% or more)",
	RetiredMilitary:         "retired military",
	ActiveDutyTransitioning: "active duty transitioning",
}

func (s VeteranStatus) String() string {
	if name, ok := veteranStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("veteran status %d", int(s))
}

// ParseVeteranStatus maps the configuration spelling to a status. Unknown
// values are an error rather than a silent NotVeteran.
func ParseVeteranStatus(s string) (VeteranStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "not-a-veteran", "not a veteran":
		return NotVeteran, nil
	case "veteran":
		return Veteran, nil
	case "disabled-30-plus", "disabled veteran":
		return Disabled30Plus, nil
	case "retired-military", "retired military":
		return RetiredMilitary, nil
	case "active-duty-transitioning", "active duty":
		return ActiveDutyTransitioning, nil
	}
	return NotVeteran, fmt.Errorf("unknown veteran status: %q", s)
}

// UserQuery is the immutable input of one pipeline invocation.
type UserQuery struct {
	Address             string
	RadiusMiles         float64
	VeteranStatus       VeteranStatus
	EducationField      string
	Keywords            []string
	IncludeAllLocations bool
}

// Validate rejects out-of-bounds parameters before any I/O.
func (q *UserQuery) Validate() error {
	if q.IncludeAllLocations {
		return nil
	}

	if q.RadiusMiles < MinRadiusMiles || q.RadiusMiles > MaxRadiusMiles {
		return fmt.Errorf("%w: radius %.0f miles outside [%d, %d]",
			ErrInvalidQuery, q.RadiusMiles, MinRadiusMiles, MaxRadiusMiles)
	}

	if strings.TrimSpace(q.Address) == "" {
		return fmt.Errorf("%w: address is required unless all locations are included", ErrInvalidQuery)
	}

	return nil
}

// IsVeteran reports whether the status qualifies for the veteran boost.
func (q *UserQuery) IsVeteran() bool {
	return q.VeteranStatus != NotVeteran
}

// HasRelevanceSignal reports whether the query carries anything to score
// against. Without a signal, relevance filtering is skipped entirely.
func (q *UserQuery) HasRelevanceSignal() bool {
	return len(q.Keywords) > 0 || strings.TrimSpace(q.EducationField) != ""
}
