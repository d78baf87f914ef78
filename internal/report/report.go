// Package report renders the final ordered match list into a markdown
// document for the user. It consumes the pipeline output as-is and adds no
// filtering of its own.
package report

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/matching"
)

const reportTemplate = `# Federal Job Matches

Generated: {{ .Generated }}

## Profile

- Address: {{ .Query.Address }}
- Veteran status: {{ .Query.VeteranStatus }}
{{- if .Query.EducationField }}
- Education: {{ .Query.EducationField }}
{{- end }}
{{- if .Query.Keywords }}
- Keywords: {{ join .Query.Keywords ", " }}
{{- end }}
{{- if .Query.IncludeAllLocations }}
- Locations: all (distance filter bypassed)
{{- else }}
- Search radius: {{ printf "%.0f" .Query.RadiusMiles }} miles
{{- end }}

{{- if .Summary.Degraded }}

> **Note:** live job data was unavailable; these matches come from the
> bundled sample dataset and may be out of date.
{{- end }}
{{- if .Summary.GeocodingFailed }}

> **Note:** your address could not be resolved, so location filtering was
> unavailable and all locations are shown.
{{- end }}

## Matches ({{ .Results.Len }})

{{ range .Results.Items }}### {{ .Posting.Title }}

- Organization: {{ .Posting.Organization }}
- Location: {{ .Posting.LocationText }}
{{- if .DistanceMiles }}
- Distance: {{ printf "%.1f" (deref .DistanceMiles) }} miles
{{- end }}
{{- if and .Posting.SalaryMin .Posting.SalaryMax }}
- Salary: {{ printf "$%.0f - $%.0f" (deref .Posting.SalaryMin) (deref .Posting.SalaryMax) }}
{{- end }}
{{- if .Posting.ClosingDate }}
- Closes: {{ .Posting.ClosingDate.Format "2006-01-02" }}
{{- end }}
- Relevance score: {{ printf "%.1f" .RelevanceScore }}
{{- if .Posting.VeteranPreferred }}
- Veteran preference applies
{{- end }}
{{- if .AI }}
{{- if .AI.Error }}
- AI assessment unavailable: {{ .AI.Error }}
{{- else }}
- AI fit: {{ printf "%.2f" .AI.Score }} ({{ .AI.Reason }})
{{- end }}
{{- end }}

{{ end }}`

type data struct {
	Generated string
	Query     *matching.UserQuery
	Results   *jobs.Results
	Summary   *matching.Summary
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join":  strings.Join,
	"deref": func(f *float64) float64 { return *f },
}).Parse(reportTemplate))

// Render produces the markdown report for a completed pipeline run.
func Render(query *matching.UserQuery, results *jobs.Results, summary *matching.Summary) (string, error) {
	if query == nil || results == nil {
		return "", fmt.Errorf("query and results are required")
	}
	if summary == nil {
		summary = &matching.Summary{}
	}

	var builder strings.Builder
	err := tmpl.Execute(&builder, data{
		Generated: time.Now().Format("2006-01-02 15:04"),
		Query:     query,
		Results:   results,
		Summary:   summary,
	})
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	return builder.String(), nil
}

// WriteFile renders the report and writes it to path.
func WriteFile(path string, query *matching.UserQuery, results *jobs.Results, summary *matching.Summary) error {
	content, err := Render(query, results, summary)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
