package flight

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SegmentLine is one Navitas itinerary line as parsed, before normalization.
type SegmentLine struct {
	LineNo        int    `json:"lineNo"`
	Raw           string `json:"raw"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DateToken     string `json:"dateToken"`
	DepartureDate string `json:"departureDate,omitempty"`
	DepTime       string `json:"depTime"`
	ArrTime       string `json:"arrTime"`
	DayOffset     int    `json:"dayOffset"`
}

// LineError records a line that looked like a segment but did not parse.
type LineError struct {
	LineNo int    `json:"lineNo"`
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

// ItineraryResult carries whatever ParseItinerary could make of the pasted
// text. Partial success is the normal case: prose lines are skipped
// silently and near-miss segment lines end up in Errors.
type ItineraryResult struct {
	Segments []SegmentLine `json:"segments"`
	Errors   []LineError   `json:"errors,omitempty"`
}

var (
	// navitasLineRe accepts one segment line with the optional extras seen in
	// pasted itineraries: a leading segment number, a booking class letter
	// after the flight number and a "+1" next-day marker on the time range.
	navitasLineRe = regexp.MustCompile(`^(?:\d{1,2}[.)]?\s+)?([A-Z]{2})\s+(\d{1,4})(?:\s+[A-Z])?\s+([A-Z]{3})-([A-Z]{3})\s+(\d{1,2}[A-Z]{3})\s+(\d{1,2}:\d{2}[AP])-(\d{1,2}:\d{2}[AP])(?:\+(\d))?$`)

	// navitasAttemptRe is the loose shape of a line that was meant to be a
	// segment. Lines matching it but not navitasLineRe are reported rather
	// than silently dropped.
	navitasAttemptRe = regexp.MustCompile(`^(?:\d{1,2}[.)]?\s+)?[A-Z]{2}\s+\d`)
)

var monthTokens = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// ParseItinerary scans pasted Navitas booking text and extracts every
// segment line it can find. Surrounding prose is ignored.
func ParseItinerary(text string) ItineraryResult {
	return parseItinerary(text, time.Now())
}

func parseItinerary(text string, now time.Time) ItineraryResult {
	var result ItineraryResult

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	for i, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		match := navitasLineRe.FindStringSubmatch(line)
		if match == nil {
			if navitasAttemptRe.MatchString(line) {
				result.Errors = append(result.Errors, LineError{
					LineNo: i + 1,
					Line:   line,
					Reason: "line does not match the Navitas segment format",
				})
			}
			continue
		}

		seg := SegmentLine{
			LineNo:        i + 1,
			Raw:           line,
			Airline:       match[1],
			FlightNumber:  match[2],
			Origin:        match[3],
			Destination:   match[4],
			DateToken:     match[5],
			DepartureDate: ResolveDepartureDate(match[5], now),
			DepTime:       match[6],
			ArrTime:       match[7],
		}
		if match[8] != "" {
			seg.DayOffset, _ = strconv.Atoi(match[8])
		}
		result.Segments = append(result.Segments, seg)
	}

	return result
}

// ResolveDepartureDate expands a Navitas date token such as "15JAN" into an
// ISO date. Tokens carry no year, so the nearest occurrence wins: a date
// more than six months in the past rolls over to next year. Returns "" for
// tokens that do not name a real day.
func ResolveDepartureDate(token string, now time.Time) string {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) < 4 {
		return ""
	}

	day, err := strconv.Atoi(token[:len(token)-3])
	if err != nil || day < 1 || day > 31 {
		return ""
	}

	month, ok := monthTokens[token[len(token)-3:]]
	if !ok {
		return ""
	}

	date := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if now.Sub(date) > 180*24*time.Hour {
		date = date.AddDate(1, 0, 0)
	}

	return date.Format("2006-01-02")
}

// Fields exposes the parsed line under the alias names NormalizeSegment
// accepts, so parsed and manually entered segments flow through the same
// normalization path.
func (s SegmentLine) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"airline":      s.Airline,
		"flightNumber": s.FlightNumber,
		"origin":       s.Origin,
		"destination":  s.Destination,
	}
	if s.DepTime != "" {
		fields["depTimeRaw"] = s.DepTime
	}
	if s.ArrTime != "" {
		fields["arrTimeRaw"] = s.ArrTime
	}
	if s.DayOffset != 0 {
		fields["dayOffset"] = s.DayOffset
	}
	return fields
}
