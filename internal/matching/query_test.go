package matching

import (
	"errors"
	"testing"
)

func TestUserQueryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   UserQuery
		invalid bool
	}{
		{
			name:  "radius at lower bound",
			query: UserQuery{Address: "Las Vegas, NV", RadiusMiles: 10},
		},
		{
			name:  "radius at upper bound",
			query: UserQuery{Address: "Las Vegas, NV", RadiusMiles: 500},
		},
		{
			name:    "radius below bound",
			query:   UserQuery{Address: "Las Vegas, NV", RadiusMiles: 9},
			invalid: true,
		},
		{
			name:    "radius above bound",
			query:   UserQuery{Address: "Las Vegas, NV", RadiusMiles: 501},
			invalid: true,
		},
		{
			name:    "zero radius",
			query:   UserQuery{Address: "Las Vegas, NV"},
			invalid: true,
		},
		{
			name:    "missing address",
			query:   UserQuery{RadiusMiles: 50},
			invalid: true,
		},
		{
			name:  "include all bypasses radius check",
			query: UserQuery{IncludeAllLocations: true, RadiusMiles: 9999},
		},
		{
			name:  "include all bypasses address check",
			query: UserQuery{IncludeAllLocations: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.query.Validate()
			if tt.invalid {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Fatalf("expected ErrInvalidQuery, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestParseVeteranStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect VeteranStatus
	}{
		{input: "", expect: NotVeteran},
		{input: "none", expect: NotVeteran},
		{input: "Not a Veteran", expect: NotVeteran},
		{input: "veteran", expect: Veteran},
		{input: " Veteran ", expect: Veteran},
		{input: "disabled-30-plus", expect: Disabled30Plus},
		{input: "retired-military", expect: RetiredMilitary},
		{input: "active-duty-transitioning", expect: ActiveDutyTransitioning},
	}

	for _, tt := range tests {
		got, err := ParseVeteranStatus(tt.input)
		if err != nil {
			t.Fatalf("input %q: expected no error, got %v", tt.input, err)
		}
		if got != tt.expect {
			t.Fatalf("input %q: expected %v, got %v", tt.input, tt.expect, got)
		}
	}
}

func TestParseVeteranStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseVeteranStatus("space-force-reserve"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestHasRelevanceSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  UserQuery
		expect bool
	}{
		{name: "no signal", query: UserQuery{}, expect: false},
		{name: "whitespace education only", query: UserQuery{EducationField: "   "}, expect: false},
		{name: "keywords", query: UserQuery{Keywords: []string{"nurse"}}, expect: true},
		{name: "education", query: UserQuery{EducationField: "nursing"}, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.query.HasRelevanceSignal(); got != tt.expect {
				t.Fatalf("expected %t, got %t", tt.expect, got)
			}
		})
	}
}
