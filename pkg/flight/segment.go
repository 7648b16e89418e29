// Package flight turns the loosely shaped segment payloads arriving from
// pasted Navitas text, the manual entry form and enrichment feeds into one
// canonical form, and derives the grouping key that collapses duplicates
// across those sources.
package flight

import "strconv"

// NormalizedSegment is the canonical flight segment. Construction never
// fails: fields that cannot be resolved degrade to "" and DayOffset to 0.
type NormalizedSegment struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepTimeRaw   string `json:"depTimeRaw,omitempty"`
	ArrTimeRaw   string `json:"arrTimeRaw,omitempty"`
	DayOffset    int    `json:"dayOffset"`
}

// IsComplete reports whether all four identity fields resolved. Incomplete
// segments still flow through the pipeline, they just group under a
// degraded key.
func (s NormalizedSegment) IsComplete() bool {
	return s.Airline != "" && s.FlightNumber != "" && s.Origin != "" && s.Destination != ""
}

// Route renders the "LAX-JFK" style routing, or "" when neither end is known.
func (s NormalizedSegment) Route() string {
	if s.Origin == "" && s.Destination == "" {
		return ""
	}
	return s.Origin + "-" + s.Destination
}

// TimeRange renders the raw local times as "9:30A-6:40P", with a "+N" suffix
// when the arrival lands N days after departure. Returns "" unless both ends
// are present.
func (s NormalizedSegment) TimeRange() string {
	if s.DepTimeRaw == "" || s.ArrTimeRaw == "" {
		return ""
	}
	timeRange := s.DepTimeRaw + "-" + s.ArrTimeRaw
	if s.DayOffset > 0 {
		timeRange += "+" + strconv.Itoa(s.DayOffset)
	}
	return timeRange
}
