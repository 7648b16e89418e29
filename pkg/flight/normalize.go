package flight

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Alias lists per canonical field, in priority order. The Navitas parser,
// the manual entry form and the enrichment feeds never agreed on field
// names, so the normalizer tries each list in sequence and takes the first
// key that is present in the payload.
var (
	airlineAliases      = []string{"airline", "airline_code", "airline_iata", "carrier"}
	flightNumberAliases = []string{"flightNumber", "flight_number", "number"}
	originAliases       = []string{"origin", "from", "departureAirport", "dep_airport", "dep_iata", "dep"}
	destinationAliases  = []string{"destination", "to", "arrivalAirport", "arr_airport", "arr_iata", "arr"}
	depTimeAliases      = []string{"depTimeRaw", "departureTime", "dep_time", "dep_time_local", "dep", "dep_local"}
	arrTimeAliases      = []string{"arrTimeRaw", "arrivalTime", "arr_time", "arr_time_local", "arr", "arr_local"}
	dayOffsetAliases    = []string{"dayOffset", "plusDays", "arrivalDayOffset", "arrival_plus_days"}
)

// navitasSegmentRe matches the one fixed segment layout the raw-text
// fallback understands, e.g. "AA 1234 LAX-JFK 15JAN 9:30A-6:40P". Any other
// layout leaves the missing fields empty.
var navitasSegmentRe = regexp.MustCompile(`([A-Z]{2})\s+(\d+)\s+([A-Z]{3})-([A-Z]{3})\s+(\d{1,2}[A-Z]{3})\s+(\d{1,2}:\d{2}[AP])-(\d{1,2}:\d{2}[AP])`)

// NormalizeSegment resolves one loosely shaped payload into the canonical
// segment form. It never fails: fields that no alias and no fallback can
// supply stay empty, and the caller decides whether the degraded segment is
// still useful.
func NormalizeSegment(payload map[string]interface{}) NormalizedSegment {
	var seg NormalizedSegment

	airline, haveAirline := lookup(payload, airlineAliases)
	number, haveNumber := lookup(payload, flightNumberAliases)
	origin, haveOrigin := lookup(payload, originAliases)
	destination, haveDestination := lookup(payload, destinationAliases)
	depTime, haveDepTime := lookup(payload, depTimeAliases)
	arrTime, haveArrTime := lookup(payload, arrTimeAliases)

	if haveAirline {
		seg.Airline = strings.ToUpper(strings.TrimSpace(coerceString(airline)))
	}
	if haveNumber {
		seg.FlightNumber = strings.TrimSpace(coerceString(number))
	}
	if haveOrigin {
		seg.Origin = strings.ToUpper(strings.TrimSpace(coerceString(origin)))
	}
	if haveDestination {
		seg.Destination = strings.ToUpper(strings.TrimSpace(coerceString(destination)))
	}
	if haveDepTime {
		seg.DepTimeRaw = strings.TrimSpace(coerceString(depTime))
	}
	if haveArrTime {
		seg.ArrTimeRaw = strings.TrimSpace(coerceString(arrTime))
	}
	if offset, ok := lookup(payload, dayOffsetAliases); ok {
		seg.DayOffset = coerceDayOffset(offset)
	}

	// The raw text fallback only backfills fields no alias resolved. A field
	// that resolved to an explicit empty string stays empty.
	if !haveAirline || !haveNumber || !haveOrigin || !haveDestination {
		if text, ok := payload["navitas_text"].(string); ok {
			if match := navitasSegmentRe.FindStringSubmatch(text); len(match) == 8 {
				if !haveAirline {
					seg.Airline = match[1]
				}
				if !haveNumber {
					seg.FlightNumber = match[2]
				}
				if !haveOrigin {
					seg.Origin = match[3]
				}
				if !haveDestination {
					seg.Destination = match[4]
				}
				if !haveDepTime {
					seg.DepTimeRaw = match[6]
				}
				if !haveArrTime {
					seg.ArrTimeRaw = match[7]
				}
			}
		}
	}

	return seg
}

// lookup returns the value under the first alias present in the payload.
// A key present with a nil value does not stop the scan; a key present with
// an empty string does. The upstream feeds rely on that distinction between
// "absent" and "explicitly empty".
func lookup(payload map[string]interface{}, aliases []string) (interface{}, bool) {
	for _, key := range aliases {
		if value, ok := payload[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// coerceString renders the loosely typed values the feeds send. Strings pass
// through, JSON numbers drop their decimal noise.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceDayOffset turns whatever the payload carried into a non-negative
// day count, defaulting to 0 for anything unparseable.
func coerceDayOffset(value interface{}) int {
	offset := 0
	switch v := value.(type) {
	case int:
		offset = v
	case int64:
		offset = int(v)
	case float64:
		offset = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		offset = n
	}
	if offset < 0 {
		return 0
	}
	return offset
}
