package matching

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
)

// Scoring weights. Simple heuristics carried over from the original
// education mapping; tunable, not load-bearing.
const (
	keywordWeight   = 1.0
	educationWeight = 1.0
	veteranBoost    = 0.5
)

// educationKeywords maps a field of study to terms that indicate a posting
// in that field.
var educationKeywords = map[string][]string{
	"data analytics": {
		"data", "analyst", "analytics", "statistics", "data science",
		"data engineering", "business intelligence", "quantitative",
		"machine learning", "forecasting", "modeling", "python", "sql",
	},
	"computer science": {
		"software", "developer", "engineer", "programmer", "analyst",
		"it", "information technology", "systems", "data", "database",
		"computer", "tech", "application", "devops", "cloud", "security",
	},
	"information technology": {
		"it", "information technology", "systems", "network", "support",
		"security", "administrator", "cloud", "infrastructure",
	},
	"data science": {
		"data", "analyst", "scientist", "analytics", "machine learning",
		"statistics", "research", "python", "sql", "database",
	},
	"software engineering": {
		"software", "developer", "engineer", "programmer", "web",
		"full stack", "backend", "frontend", "mobile", "devops",
	},
	"cybersecurity": {
		"security", "cyber", "information assurance", "network",
		"analyst", "engineer", "administrator", "compliance",
	},
	"nursing":          {"nurse", "rn", "lpn", "clinical", "healthcare"},
	"medical":          {"health", "medical", "clinical", "healthcare"},
	"criminal justice": {"police", "security", "law enforcement", "criminal"},
	"business":         {"manager", "analyst", "administrator", "coordinator"},
	"engineering":      {"engineer", "technical", "systems", "mechanical", "electrical"},
}

type relevanceFilter struct {
	query  *UserQuery
	logger *zap.Logger

	disabled bool
	reason   string
}

// NewRelevance creates the eligibility and relevance scoring step.
func NewRelevance(query *UserQuery, logger *zap.Logger) Filter {
	return &relevanceFilter{query: query, logger: logger}
}

func (f *relevanceFilter) Name() string { return "relevance" }

func (f *relevanceFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *relevanceFilter) IsEnabled() bool { return !f.disabled }

func (f *relevanceFilter) Validate() error { return nil }

func (f *relevanceFilter) Apply(_ context.Context, r *jobs.Results) (*jobs.Results, Step, error) {
	initial := r.Len()
	hasSignal := f.query.HasRelevanceSignal()

	kept := make([]*jobs.MatchResult, 0, initial)
	for _, result := range r.Items {
		keywordScore, educationScore := f.score(result.Posting)

		// A posting with no keyword and no education signal is not a
		// recommendation. Without any signal in the query, everything
		// passes with just the veteran boost.
		if hasSignal && keywordScore == 0 && educationScore == 0 {
			continue
		}

		result.RelevanceScore = keywordScore + educationScore
		if f.query.IsVeteran() && result.Posting.VeteranPreferred {
			result.RelevanceScore += veteranBoost
		}

		kept = append(kept, result)
	}

	r.Items = kept

	return r, Step{Initial: initial, Dropped: initial - r.Len(), Left: r.Len()}, nil
}

// score returns the keyword and education components separately so the
// zero-signal exclusion can ignore the veteran boost.
func (f *relevanceFilter) score(p *jobs.Posting) (keywordScore, educationScore float64) {
	searchable := searchableText(p)

	for _, keyword := range f.query.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(searchable, keyword) {
			keywordScore += keywordWeight
		}
	}

	for _, term := range educationTerms(f.query.EducationField) {
		if strings.Contains(searchable, term) {
			educationScore = educationWeight
			break
		}
	}

	return keywordScore, educationScore
}

// searchableText joins title, extracted keywords and qualification summary
// into one lower-cased haystack. Matching is substring-based on purpose: it
// tolerates phrasing variance at the cost of precision.
func searchableText(p *jobs.Posting) string {
	parts := make([]string, 0, 3)
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if len(p.Keywords) > 0 {
		parts = append(parts, strings.Join(p.Keywords, " "))
	}
	if p.QualificationText != "" {
		parts = append(parts, p.QualificationText)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// educationTerms resolves the education field against the fixed table. A
// free-text field with no table entry falls back to matching the field text
// itself, so an uncommon degree still has a chance to match.
func educationTerms(field string) []string {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return nil
	}

	for name, terms := range educationKeywords {
		if strings.Contains(field, name) {
			return terms
		}
	}

	return []string{field}
}
