package jobs

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/geo"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/usajobs"
)

// Layouts seen in ApplicationCloseDate across the API and the bundled
// dataset.
var closingDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// Values of the veteran preference indicator that mean "no preference".
var noPreferenceValues = map[string]struct{}{
	"":               {},
	"none":           {},
	"no":             {},
	"n/a":            {},
	"not applicable": {},
}

// Normalize converts a raw posting into its canonical form. It is total and
// deterministic: it never fails, and missing or malformed fields come out as
// nil pointers or empty collections.
func Normalize(raw *usajobs.RawPosting) *Posting {
	if raw == nil {
		raw = &usajobs.RawPosting{}
	}

	p := &Posting{
		Title:             strings.TrimSpace(raw.PositionTitle),
		Organization:      strings.TrimSpace(raw.OrganizationName),
		LocationText:      strings.TrimSpace(raw.PositionLocationDisplay),
		QualificationText: strings.TrimSpace(raw.QualificationSummary),
	}

	if p.LocationText == "" && len(raw.PositionLocation) > 0 {
		p.LocationText = strings.TrimSpace(raw.PositionLocation[0].LocationName)
	}

	p.ID = postingID(p.Title, p.Organization, p.LocationText)
	p.Coordinates = coordinates(raw.PositionLocation)

	if len(raw.PositionRemuneration) > 0 {
		p.SalaryMin = parseSalary(raw.PositionRemuneration[0].MinimumRange)
		p.SalaryMax = parseSalary(raw.PositionRemuneration[0].MaximumRange)
	}

	p.VeteranPreferred = veteranPreferred(raw.UserArea.Details.VeteransPreference)
	p.ClosingDate = parseClosingDate(raw.ApplicationCloseDate)
	p.Keywords = tokenize(p.Title + " " + p.QualificationText)

	return p
}

// NormalizeAll wraps every raw record into an unscored match result, ready
// for the pipeline.
func NormalizeAll(raws []*usajobs.RawPosting) *Results {
	results := &Results{Items: make([]*MatchResult, 0, len(raws))}
	for _, raw := range raws {
		results.Items = append(results.Items, &MatchResult{Posting: Normalize(raw)})
	}
	return results
}

func postingID(title, organization, location string) string {
	h := fnv.New32a()
	// Write on hash.Hash never fails.
	h.Write([]byte(strings.ToLower(title + "|" + organization + "|" + location)))
	return fmt.Sprintf("%08x", h.Sum32())
}

func coordinates(locations []usajobs.RawLocation) *geo.Point {
	for _, loc := range locations {
		if loc.Latitude == nil || loc.Longitude == nil {
			continue
		}
		point := geo.Point{Lat: *loc.Latitude, Lon: *loc.Longitude}
		if point.Valid() {
			return &point
		}
	}
	return nil
}

func parseSalary(s string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if cleaned == "" {
		return nil
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

func veteranPreferred(indicator string) bool {
	normalized := strings.ToLower(strings.TrimSpace(indicator))
	_, none := noPreferenceValues[normalized]
	return !none
}

func parseClosingDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range closingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// tokenize lower-cases the text and splits it on anything that is not a
// letter or digit. Stop words are kept: downstream keyword matching uses
// substring semantics, so extra tokens cost nothing.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	return tokens
}
