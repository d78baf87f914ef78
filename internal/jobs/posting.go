package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/geo"
)

// Posting is the canonical form of a federal job announcement. Created by
// Normalize and immutable thereafter. Missing source fields stay nil/empty,
// never placeholder strings.
type Posting struct {
	// ID is a stable dedup key derived from title, organization and
	// location. Collisions between genuinely different postings are
	// tolerated.
	ID                string     `json:"id"`
	Title             string     `json:"title,omitempty"`
	Organization      string     `json:"organization,omitempty"`
	LocationText      string     `json:"location,omitempty"`
	Coordinates       *geo.Point `json:"coordinates,omitempty"`
	SalaryMin         *float64   `json:"salary_min,omitempty"`
	SalaryMax         *float64   `json:"salary_max,omitempty"`
	VeteranPreferred  bool       `json:"veteran_preferred,omitempty"`
	QualificationText string     `json:"qualification_text,omitempty"`
	ClosingDate       *time.Time `json:"closing_date,omitempty"`
	Keywords          []string   `json:"keywords,omitempty"`
}

// MatchResult is a posting that survived the matching pipeline.
type MatchResult struct {
	Posting        *Posting      `json:"posting"`
	DistanceMiles  *float64      `json:"distance_miles,omitempty"`
	RelevanceScore float64       `json:"relevance_score"`
	AI             *AIAssessment `json:"ai,omitempty"`
}

// AIAssessment is an optional annotation from the AI fit matcher. It never
// affects which postings survive, only how they are presented.
type AIAssessment struct {
	Fit     bool    `json:"fit,omitempty"`
	Score   float64 `json:"score,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Results is the request-scoped working set the pipeline filters in place.
type Results struct {
	Items []*MatchResult `json:"items"`
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) FindByID(id string) *MatchResult {
	for _, result := range r.Items {
		if result.Posting.ID == id {
			return result
		}
	}
	return nil
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByOrganization groups the matches per hiring organization.
func (r *Results) ReportByOrganization() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, result := range r.Items {
		p := result.Posting

		entry := map[string]string{
			"title":    p.Title,
			"location": p.LocationText,
			"score":    fmt.Sprintf("%.1f", result.RelevanceScore),
		}
		if p.SalaryMin != nil && p.SalaryMax != nil {
			entry["salary"] = fmt.Sprintf("$%.0f - $%.0f", *p.SalaryMin, *p.SalaryMax)
		}
		if result.DistanceMiles != nil {
			entry["distance_miles"] = fmt.Sprintf("%.1f", *result.DistanceMiles)
		}
		if p.ClosingDate != nil {
			entry["closes"] = p.ClosingDate.Format("2006-01-02")
		}
		if result.AI != nil {
			if result.AI.Error != "" {
				entry["ai_error"] = result.AI.Error
			} else {
				entry["ai_fit"] = fmt.Sprintf("%t", result.AI.Fit)
				entry["ai_score"] = fmt.Sprintf("%g", result.AI.Score)
				entry["ai_reason"] = result.AI.Reason
			}
		}

		org := p.Organization
		if org == "" {
			org = "(unknown organization)"
		}
		report[org] = append(report[org], entry)
	}
	return report
}
