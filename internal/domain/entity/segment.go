// internal/domain/entity/segment.go
package entity

import (
	"time"
)

// FlightSegment is the stored form of one flight leg. FlightKey carries a
// unique index; segments arriving again through any entry path merge into
// the existing record instead of duplicating it.
type FlightSegment struct {
	ID            string                 `bson:"_id,omitempty" json:"id,omitempty"`
	FlightKey     string                 `bson:"flightKey" json:"flightKey"` // airline-number-depDate-origin-destination, unique index
	Airline       string                 `bson:"airline" json:"airline"`
	FlightNumber  string                 `bson:"flightNumber" json:"flightNumber"`
	Origin        string                 `bson:"origin" json:"origin"`
	Destination   string                 `bson:"destination" json:"destination"`
	DepartureDate string                 `bson:"departureDate" json:"departureDate"`
	DepTimeRaw    string                 `bson:"depTimeRaw,omitempty" json:"depTimeRaw,omitempty"`
	ArrTimeRaw    string                 `bson:"arrTimeRaw,omitempty" json:"arrTimeRaw,omitempty"`
	DayOffset     int                    `bson:"dayOffset" json:"dayOffset"`
	DepartureUTC  *time.Time             `bson:"departureUtc,omitempty" json:"departureUtc,omitempty"`
	ArrivalUTC    *time.Time             `bson:"arrivalUtc,omitempty" json:"arrivalUtc,omitempty"`
	Sources       []string               `bson:"sources" json:"sources"`
	Enrichment    map[string]interface{} `bson:"enrichment,omitempty" json:"enrichment,omitempty"`
	CreatedAt     time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time              `bson:"updatedAt" json:"updatedAt"`
}
