package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/matching"
)

func reportQuery() *matching.UserQuery {
	return &matching.UserQuery{
		Address:        "Las Vegas, NV",
		RadiusMiles:    50,
		VeteranStatus:  matching.Veteran,
		EducationField: "nursing",
		Keywords:       []string{"nurse", "clinical"},
	}
}

func reportResults() *jobs.Results {
	distance := 3.2
	salaryMin := 72000.0
	salaryMax := 110500.0
	closing := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	return &jobs.Results{Items: []*jobs.MatchResult{
		{
			Posting: &jobs.Posting{
				ID:               "abc123",
				Title:            "Clinical Nurse",
				Organization:     "Veterans Health Administration",
				LocationText:     "Las Vegas, Nevada",
				SalaryMin:        &salaryMin,
				SalaryMax:        &salaryMax,
				VeteranPreferred: true,
				ClosingDate:      &closing,
			},
			DistanceMiles:  &distance,
			RelevanceScore: 2.5,
		},
		{
			Posting: &jobs.Posting{
				ID:    "def456",
				Title: "Registered Nurse",
			},
			RelevanceScore: 1.0,
		},
	}}
}

func TestRenderIncludesProfileAndMatches(t *testing.T) {
	t.Parallel()

	out, err := Render(reportQuery(), reportResults(), &matching.Summary{})
	require.NoError(t, err)

	assert.Contains(t, out, "Las Vegas, NV")
	assert.Contains(t, out, "veteran")
	assert.Contains(t, out, "nurse, clinical")
	assert.Contains(t, out, "Search radius: 50 miles")

	assert.Contains(t, out, "## Matches (2)")
	assert.Contains(t, out, "### Clinical Nurse")
	assert.Contains(t, out, "Veterans Health Administration")
	assert.Contains(t, out, "Distance: 3.2 miles")
	assert.Contains(t, out, "Salary: $72000 - $110500")
	assert.Contains(t, out, "Closes: 2026-10-15")
	assert.Contains(t, out, "Relevance score: 2.5")
	assert.Contains(t, out, "Veteran preference applies")

	assert.NotContains(t, out, "bundled sample dataset")
	assert.NotContains(t, out, "could not be resolved")
}

func TestRenderFlagsDegradedSource(t *testing.T) {
	t.Parallel()

	out, err := Render(reportQuery(), reportResults(), &matching.Summary{Degraded: true})
	require.NoError(t, err)

	assert.Contains(t, out, "bundled sample dataset")
}

func TestRenderFlagsGeocodingFailure(t *testing.T) {
	t.Parallel()

	out, err := Render(reportQuery(), reportResults(), &matching.Summary{GeocodingFailed: true})
	require.NoError(t, err)

	assert.Contains(t, out, "could not be resolved")
	assert.Contains(t, out, "all locations are shown")
}

func TestRenderIncludesAIAssessment(t *testing.T) {
	t.Parallel()

	results := reportResults()
	results.Items[0].AI = &jobs.AIAssessment{Fit: true, Score: 0.82, Reason: "Strong clinical match"}
	results.Items[1].AI = &jobs.AIAssessment{Error: "quota exceeded"}

	out, err := Render(reportQuery(), results, &matching.Summary{})
	require.NoError(t, err)

	assert.Contains(t, out, "AI fit: 0.82 (Strong clinical match)")
	assert.Contains(t, out, "AI assessment unavailable: quota exceeded")
}

func TestRenderIncludeAllLocations(t *testing.T) {
	t.Parallel()

	query := reportQuery()
	query.IncludeAllLocations = true

	out, err := Render(query, reportResults(), nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Locations: all")
	assert.NotContains(t, out, "Search radius")
}

func TestRenderRequiresQueryAndResults(t *testing.T) {
	t.Parallel()

	_, err := Render(nil, reportResults(), nil)
	assert.Error(t, err)

	_, err = Render(reportQuery(), nil, nil)
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/report.md"

	require.NoError(t, WriteFile(path, reportQuery(), reportResults(), &matching.Summary{}))

	assert.FileExists(t, path)
}
