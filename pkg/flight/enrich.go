package flight

import "strings"

// EnrichedSegment extends a normalized segment with the presentation extras
// a flight data feed can supply. The core fields always come from the
// segment itself; an enrichment row can never override them.
type EnrichedSegment struct {
	NormalizedSegment
	AirlineName    string `json:"airlineName,omitempty"`
	Aircraft       string `json:"aircraft,omitempty"`
	Status         string `json:"status,omitempty"`
	DepTerminal    string `json:"depTerminal,omitempty"`
	DepGate        string `json:"depGate,omitempty"`
	ArrTerminal    string `json:"arrTerminal,omitempty"`
	ArrGate        string `json:"arrGate,omitempty"`
	ScheduledRange string `json:"scheduledRange,omitempty"`
}

// Each enrichment provider uses its own field names, same story as the
// segment payloads.
var (
	airlineNameAliases = []string{"airline_name", "airlineName", "carrier_name", "name"}
	aircraftAliases    = []string{"aircraft", "aircraft_type", "equipment"}
	statusAliases      = []string{"status", "flight_status", "state"}
	depTerminalAliases = []string{"dep_terminal", "departure_terminal", "terminal"}
	depGateAliases     = []string{"dep_gate", "departure_gate", "gate"}
	arrTerminalAliases = []string{"arr_terminal", "arrival_terminal"}
	arrGateAliases     = []string{"arr_gate", "arrival_gate"}
	scheduledAliases   = []string{"scheduled", "scheduled_range", "scheduled_time"}
)

// Enrich wraps a normalized segment with whatever extras the provider row
// carries. A nil or empty row still yields a usable EnrichedSegment whose
// scheduled range falls back to the segment's own raw times.
func Enrich(seg NormalizedSegment, row map[string]interface{}) EnrichedSegment {
	enriched := EnrichedSegment{NormalizedSegment: seg}

	enriched.AirlineName = enrichString(row, airlineNameAliases)
	enriched.Aircraft = enrichString(row, aircraftAliases)
	enriched.Status = enrichString(row, statusAliases)
	enriched.DepTerminal = enrichString(row, depTerminalAliases)
	enriched.DepGate = enrichString(row, depGateAliases)
	enriched.ArrTerminal = enrichString(row, arrTerminalAliases)
	enriched.ArrGate = enrichString(row, arrGateAliases)

	enriched.ScheduledRange = enrichString(row, scheduledAliases)
	if enriched.ScheduledRange == "" {
		enriched.ScheduledRange = seg.TimeRange()
	}

	return enriched
}

func enrichString(row map[string]interface{}, aliases []string) string {
	value, ok := lookup(row, aliases)
	if !ok {
		return ""
	}
	return strings.TrimSpace(coerceString(value))
}
