package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/usajobs"
)

func float64Ptr(v float64) *float64 { return &v }

func TestNormalizeFullPosting(t *testing.T) {
	t.Parallel()

	raw := &usajobs.RawPosting{
		PositionTitle:           "  Registered Nurse  ",
		OrganizationName:        "Veterans Health Administration",
		PositionLocationDisplay: "Las Vegas, Nevada",
		PositionLocation: []usajobs.RawLocation{
			{
				LocationName: "Las Vegas, Nevada",
				Latitude:     float64Ptr(36.1699),
				Longitude:    float64Ptr(-115.1398),
			},
		},
		PositionRemuneration: []usajobs.RawRemuneration{
			{MinimumRange: "$72,000", MaximumRange: "$110,500"},
		},
		QualificationSummary: "Current RN license required.",
		ApplicationCloseDate: "2026-10-15",
		UserArea: usajobs.RawUserArea{
			Details: usajobs.RawDetails{VeteransPreference: "5-point preference"},
		},
	}

	p := Normalize(raw)

	assert.Equal(t, "Registered Nurse", p.Title)
	assert.Equal(t, "Veterans Health Administration", p.Organization)
	assert.Equal(t, "Las Vegas, Nevada", p.LocationText)

	require.NotNil(t, p.Coordinates)
	assert.Equal(t, 36.1699, p.Coordinates.Lat)
	assert.Equal(t, -115.1398, p.Coordinates.Lon)

	require.NotNil(t, p.SalaryMin)
	require.NotNil(t, p.SalaryMax)
	assert.Equal(t, 72000.0, *p.SalaryMin)
	assert.Equal(t, 110500.0, *p.SalaryMax)

	assert.True(t, p.VeteranPreferred)

	require.NotNil(t, p.ClosingDate)
	assert.Equal(t, "2026-10-15", p.ClosingDate.Format("2006-01-02"))

	assert.Contains(t, p.Keywords, "registered")
	assert.Contains(t, p.Keywords, "nurse")
	assert.Contains(t, p.Keywords, "license")
	assert.NotEmpty(t, p.ID)
}

func TestNormalizeNeverFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *usajobs.RawPosting
	}{
		{name: "nil record", raw: nil},
		{name: "empty record", raw: &usajobs.RawPosting{}},
		{
			name: "malformed fields",
			raw: &usajobs.RawPosting{
				PositionRemuneration: []usajobs.RawRemuneration{
					{MinimumRange: "negotiable", MaximumRange: ""},
				},
				ApplicationCloseDate: "soon",
				PositionLocation: []usajobs.RawLocation{
					{Latitude: float64Ptr(999), Longitude: float64Ptr(0)},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Normalize(tt.raw)
			require.NotNil(t, p)

			assert.Nil(t, p.Coordinates)
			assert.Nil(t, p.SalaryMin)
			assert.Nil(t, p.SalaryMax)
			assert.Nil(t, p.ClosingDate)
			assert.NotEmpty(t, p.ID)
		})
	}
}

func TestNormalizeLocationFallsBackToFirstLocationName(t *testing.T) {
	t.Parallel()

	raw := &usajobs.RawPosting{
		PositionLocation: []usajobs.RawLocation{
			{LocationName: "Killeen, Texas"},
		},
	}

	assert.Equal(t, "Killeen, Texas", Normalize(raw).LocationText)
}

func TestNormalizeSkipsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	raw := &usajobs.RawPosting{
		PositionLocation: []usajobs.RawLocation{
			{Latitude: float64Ptr(120), Longitude: float64Ptr(-115)},
			{Latitude: float64Ptr(36.1699), Longitude: float64Ptr(-115.1398)},
		},
	}

	p := Normalize(raw)
	require.NotNil(t, p.Coordinates)
	assert.Equal(t, 36.1699, p.Coordinates.Lat)
}

func TestVeteranPreferred(t *testing.T) {
	t.Parallel()

	tests := []struct {
		indicator string
		expect    bool
	}{
		{indicator: "", expect: false},
		{indicator: "None", expect: false},
		{indicator: "no", expect: false},
		{indicator: "N/A", expect: false},
		{indicator: "Not Applicable", expect: false},
		{indicator: "5-point preference", expect: true},
		{indicator: "Yes", expect: true},
	}

	for _, tt := range tests {
		raw := &usajobs.RawPosting{
			UserArea: usajobs.RawUserArea{
				Details: usajobs.RawDetails{VeteransPreference: tt.indicator},
			},
		}
		assert.Equal(t, tt.expect, Normalize(raw).VeteranPreferred, "indicator %q", tt.indicator)
	}
}

func TestPostingIDStableAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	a := Normalize(&usajobs.RawPosting{
		PositionTitle:           "Data Scientist",
		OrganizationName:        "Department of Defense",
		PositionLocationDisplay: "Washington, DC",
	})
	b := Normalize(&usajobs.RawPosting{
		PositionTitle:           "DATA SCIENTIST",
		OrganizationName:        "department of defense",
		PositionLocationDisplay: "WASHINGTON, DC",
	})
	c := Normalize(&usajobs.RawPosting{
		PositionTitle:           "Data Scientist",
		OrganizationName:        "Department of Defense",
		PositionLocationDisplay: "Las Vegas, Nevada",
	})

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNormalizeParsesClosingDateLayouts(t *testing.T) {
	t.Parallel()

	tests := []string{
		"2026-10-15T23:59:59Z",
		"2026-10-15T23:59:59.9999999",
		"2026-10-15T23:59:59",
		"2026-10-15",
		"10/15/2026",
	}

	for _, value := range tests {
		raw := &usajobs.RawPosting{ApplicationCloseDate: value}
		p := Normalize(raw)
		require.NotNil(t, p.ClosingDate, "layout %q", value)
		assert.Equal(t, "2026-10-15", p.ClosingDate.Format("2006-01-02"), "layout %q", value)
	}
}

func TestNormalizeAllWrapsEveryRecord(t *testing.T) {
	t.Parallel()

	results := NormalizeAll([]*usajobs.RawPosting{
		{PositionTitle: "Nurse"},
		nil,
		{PositionTitle: "Engineer"},
	})

	require.Equal(t, 3, results.Len())
	for _, result := range results.Items {
		require.NotNil(t, result.Posting)
		assert.Zero(t, result.RelevanceScore)
		assert.Nil(t, result.DistanceMiles)
	}
}

func TestTokenizeDeduplicatesPreservingOrder(t *testing.T) {
	t.Parallel()

	raw := &usajobs.RawPosting{
		PositionTitle:        "Nurse Nurse Practitioner",
		QualificationSummary: "Nurse practitioner license, C#/.NET not required.",
	}

	keywords := Normalize(raw).Keywords

	assert.Equal(t, []string{"nurse", "practitioner", "license", "c", "net", "not", "required"}, keywords)
}
