package usajobs

// RawPosting is the external record shape shared by the live API and the
// bundled fallback dataset. It mirrors the MatchedObjectDescriptor object of
// the Search API. Any field may be missing; no invariants hold here. The
// normalizer in the jobs package is the only consumer of this shape.
type RawPosting struct {
	PositionTitle           string `json:"PositionTitle,omitempty"`
	OrganizationName        string `json:"OrganizationName,omitempty"`
	PositionLocationDisplay string `json:"PositionLocationDisplay,omitempty"`

	PositionLocation     []RawLocation     `json:"PositionLocation,omitempty"`
	PositionRemuneration []RawRemuneration `json:"PositionRemuneration,omitempty"`

	QualificationSummary string `json:"QualificationSummary,omitempty"`
	ApplicationCloseDate string `json:"ApplicationCloseDate,omitempty"`

	UserArea RawUserArea `json:"UserArea,omitempty"`
}

type RawLocation struct {
	LocationName string   `json:"LocationName,omitempty"`
	Latitude     *float64 `json:"Latitude,omitempty"`
	Longitude    *float64 `json:"Longitude,omitempty"`
}

// RawRemuneration carries salary bounds. The API returns them as strings,
// sometimes with currency symbols and thousands separators.
type RawRemuneration struct {
	MinimumRange string `json:"MinimumRange,omitempty"`
	MaximumRange string `json:"MaximumRange,omitempty"`
}

type RawUserArea struct {
	Details RawDetails `json:"Details,omitempty"`
}

type RawDetails struct {
	VeteransPreference string `json:"VeteransPreference,omitempty"`
}
