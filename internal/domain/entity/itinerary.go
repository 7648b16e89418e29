package entity

import (
	"time"
)

// Itinerary process status
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusSkipped    = "SKIPPED"
)

// Itinerary sources
const (
	SourceGmail  = "gmail"
	SourceAPI    = "api"
	SourceManual = "manual"
)

// Itinerary is one raw booking-text submission, whether it arrived as a
// Gmail message or through the ingest API. The pasted text stays verbatim
// in Body; everything derived from it lives in FlightSegment records.
type Itinerary struct {
	SourceID         string                 `bson:"sourceId" json:"sourceId"`
	Source           string                 `bson:"source" json:"source"`
	From             string                 `bson:"from" json:"from,omitempty"`
	Subject          string                 `bson:"subject" json:"subject"`
	Body             string                 `bson:"body" json:"body,omitempty"`
	HTMLBody         string                 `bson:"htmlBody" json:"htmlBody,omitempty"`
	ReceivedAt       time.Time              `bson:"receivedAt" json:"receivedAt"`
	ProcessedAt      time.Time              `bson:"processedAt" json:"processedAt,omitempty"`
	ProcessStatus    string                 `bson:"processStatus" json:"processStatus"`
	ProcessorType    string                 `bson:"processorType" json:"processorType,omitempty"`
	ProcessStartedAt time.Time              `bson:"processStartedAt" json:"processStartedAt,omitempty"`
	ProcessSteps     ProcessSteps           `bson:"processSteps" json:"processSteps"`
	ErrorDetail      string                 `bson:"errorDetail" json:"errorDetail,omitempty"`
	ExtractedData    map[string]interface{} `bson:"extractedData" json:"extractedData,omitempty"`
}

// ProcessSteps counts what processing achieved, step by step, so a FAILED
// or SKIPPED itinerary shows how far it got.
type ProcessSteps struct {
	SegmentsParsed     int `bson:"segmentsParsed" json:"segmentsParsed"`
	SegmentsNormalized int `bson:"segmentsNormalized" json:"segmentsNormalized"`
	RecordsUpserted    int `bson:"recordsUpserted" json:"recordsUpserted"`
	ParseErrors        int `bson:"parseErrors" json:"parseErrors"`
}
