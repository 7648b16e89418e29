package flight

import (
	"fmt"
	"strings"
)

// FormatSegments renders segments as the plain text block used in itinerary
// summaries.
func FormatSegments(segments []NormalizedSegment) string {
	var builder strings.Builder
	for i, seg := range segments {
		line := fmt.Sprintf("%d  %-2s %-4s  %s  %s", i+1, seg.Airline, seg.FlightNumber, seg.Route(), seg.TimeRange())
		builder.WriteString(strings.TrimRight(line, " "))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatEnrichedSegments renders enriched segments with their provider
// extras appended where present.
func FormatEnrichedSegments(segments []EnrichedSegment) string {
	var builder strings.Builder
	for i, seg := range segments {
		line := fmt.Sprintf("%d  %-2s %-4s  %s  %s", i+1, seg.Airline, seg.FlightNumber, seg.Route(), seg.ScheduledRange)
		if seg.Aircraft != "" {
			line += "  " + seg.Aircraft
		}
		if seg.Status != "" {
			line += "  " + seg.Status
		}
		builder.WriteString(strings.TrimRight(line, " "))
		builder.WriteString("\n")
	}
	return builder.String()
}
