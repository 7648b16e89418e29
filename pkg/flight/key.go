package flight

import "strings"

// keyDelimiter joins the five parts of a group key. Airline, flight number
// and airport codes can never contain it after normalization; the ISO date
// in the middle does, but its fixed shape keeps the key unambiguous.
const keyDelimiter = "-"

// GroupKey builds the deterministic key that collapses segments describing
// the same physical flight, whichever entry path produced them. Callers
// pass already normalized parts; the builder never validates, so garbage in
// yields a garbage but still deterministic key out.
func GroupKey(airline, flightNumber, depDate, origin, destination string) string {
	return strings.Join([]string{airline, flightNumber, depDate, origin, destination}, keyDelimiter)
}

// SegmentKey is GroupKey fed from a normalized segment plus the departure
// date the caller resolved for it.
func SegmentKey(seg NormalizedSegment, depDate string) string {
	return GroupKey(seg.Airline, seg.FlightNumber, depDate, seg.Origin, seg.Destination)
}
