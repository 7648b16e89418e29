package usecase

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/flight"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

const processorTypeNavitas = "navitas"

// ItineraryProcessor turns raw itinerary text into normalized flight
// segment records
type ItineraryProcessor struct {
	itineraryRepo repository.ItineraryRepository
	segmentRepo   repository.FlightSegmentRepository
	airlineRepo   repository.AirlineRepository
	airportRepo   repository.AirportRepository
	logger        logger.Logger
	metrics       *metrics.Metrics
}

// NewItineraryProcessor creates a new itinerary processor
func NewItineraryProcessor(
	itineraryRepo repository.ItineraryRepository,
	segmentRepo repository.FlightSegmentRepository,
	airlineRepo repository.AirlineRepository,
	airportRepo repository.AirportRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ItineraryProcessor {
	return &ItineraryProcessor{
		itineraryRepo: itineraryRepo,
		segmentRepo:   segmentRepo,
		airlineRepo:   airlineRepo,
		airportRepo:   airportRepo,
		logger:        logger,
		metrics:       metrics,
	}
}

// ProcessItineraryText parses the body, normalizes every segment line and
// upserts the results into the flight segment store
func (p *ItineraryProcessor) ProcessItineraryText(ctx context.Context, body string, sourceID string) error {
	start := time.Now()
	defer func() {
		p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
		p.metrics.ItinerariesProcessed.Inc()
	}()

	p.logger.Info("Processing itinerary", "sourceId", sourceID)

	if err := p.itineraryRepo.UpdateStatus(ctx, sourceID, entity.StatusProcessing, start); err != nil {
		p.logger.Error("Failed to update status", "error", err, "sourceId", sourceID)
	}

	result := flight.ParseItinerary(body)

	steps := entity.ProcessSteps{
		SegmentsParsed: len(result.Segments),
		ParseErrors:    len(result.Errors),
	}
	if err := p.itineraryRepo.UpdateProcessSteps(ctx, sourceID, steps); err != nil {
		p.logger.Error("Failed to update process steps", "error", err, "sourceId", sourceID)
	}

	for _, lineErr := range result.Errors {
		p.metrics.ParseErrors.Inc()
		p.logger.Warn("Unparseable segment line",
			"sourceId", sourceID,
			"line", lineErr.LineNo,
			"reason", lineErr.Reason)
	}

	if len(result.Segments) == 0 && len(result.Errors) == 0 {
		p.logger.Info("No segment lines found, skipping", "sourceId", sourceID)
		return p.itineraryRepo.MarkAsProcessed(ctx, sourceID, entity.StatusSkipped, processorTypeNavitas,
			"No Navitas segment lines found",
			map[string]interface{}{"reason": "no_segment_lines"})
	}

	normalized := make([]flight.NormalizedSegment, 0, len(result.Segments))
	flightKeys := []string{}
	upserted := 0
	var lastErr error

	for _, line := range result.Segments {
		seg := flight.NormalizeSegment(line.Fields())
		normalized = append(normalized, seg)
		steps.SegmentsNormalized++
		p.metrics.SegmentsNormalized.Inc()

		if !seg.IsComplete() || line.DepartureDate == "" {
			p.logger.Warn("Segment identity incomplete, not storing",
				"sourceId", sourceID,
				"line", line.LineNo,
				"route", seg.Route())
			continue
		}

		record := p.buildRecord(ctx, seg, line, sourceID)
		if err := p.segmentRepo.UpsertByKey(ctx, record); err != nil {
			p.logger.Error("Failed to upsert segment", "error", err, "flightKey", record.FlightKey)
			p.metrics.ErrorsCount.WithLabelValues("upsert_segment").Inc()
			lastErr = err
			continue
		}
		upserted++
		steps.RecordsUpserted = upserted
		flightKeys = append(flightKeys, record.FlightKey)

		p.attachReferenceData(ctx, record)
	}

	if err := p.itineraryRepo.UpdateProcessSteps(ctx, sourceID, steps); err != nil {
		p.logger.Error("Failed to update process steps", "error", err, "sourceId", sourceID)
	}

	status, errorDetail := finalStatus(len(result.Segments), len(result.Errors), upserted, lastErr)
	extracted := map[string]interface{}{
		"segmentCount": len(result.Segments),
		"parseErrors":  len(result.Errors),
		"flightKeys":   flightKeys,
		"summary":      flight.FormatSegments(normalized),
	}

	p.logger.Info("Itinerary processed",
		"sourceId", sourceID,
		"status", status,
		"segments", len(result.Segments),
		"upserted", upserted,
		"parseErrors", len(result.Errors))

	if err := p.itineraryRepo.MarkAsProcessed(ctx, sourceID, status, processorTypeNavitas, errorDetail, extracted); err != nil {
		p.logger.Error("Failed to mark as processed", "error", err, "sourceId", sourceID)
		return err
	}
	return lastErr
}

// finalStatus decides the terminal processing status for an itinerary
func finalStatus(parsed, parseErrors, upserted int, lastErr error) (string, string) {
	switch {
	case parsed == 0:
		return entity.StatusFailed, fmt.Sprintf("%d segment line(s) could not be parsed", parseErrors)
	case upserted == 0 && lastErr != nil:
		return entity.StatusFailed, fmt.Sprintf("No segments stored: %v", lastErr)
	case upserted == 0:
		return entity.StatusSkipped, "No segment with a complete identity found"
	case upserted < parsed || parseErrors > 0:
		return entity.StatusCompleted, fmt.Sprintf("Stored %d of %d segments, %d line(s) unparseable", upserted, parsed, parseErrors)
	default:
		return entity.StatusCompleted, ""
	}
}

// buildRecord assembles the persistent segment record, anchoring the local
// departure and arrival times in UTC when the airports are known
func (p *ItineraryProcessor) buildRecord(ctx context.Context, seg flight.NormalizedSegment, line flight.SegmentLine, sourceID string) *entity.FlightSegment {
	record := &entity.FlightSegment{
		FlightKey:     flight.SegmentKey(seg, line.DepartureDate),
		Airline:       seg.Airline,
		FlightNumber:  seg.FlightNumber,
		Origin:        seg.Origin,
		Destination:   seg.Destination,
		DepartureDate: line.DepartureDate,
		DepTimeRaw:    seg.DepTimeRaw,
		ArrTimeRaw:    seg.ArrTimeRaw,
		DayOffset:     seg.DayOffset,
		Sources:       []string{sourceID},
	}
	p.anchorTimes(ctx, record)
	return record
}

// anchorTimes fills DepartureUTC and ArrivalUTC from the raw local times.
// Missing airports, unknown timezones or unparseable clock times leave the
// fields nil; the record is still stored
func (p *ItineraryProcessor) anchorTimes(ctx context.Context, record *entity.FlightSegment) {
	departLocation := p.airportLocation(ctx, record.Origin)
	arriveLocation := p.airportLocation(ctx, record.Destination)
	if departLocation == nil || arriveLocation == nil {
		return
	}

	departDate, err := time.Parse("2006-01-02", record.DepartureDate)
	if err != nil {
		return
	}

	departClock, ok := parseClockTime(record.DepTimeRaw)
	if !ok {
		return
	}
	departDateTime := time.Date(departDate.Year(), departDate.Month(), departDate.Day(),
		departClock.Hour(), departClock.Minute(), 0, 0, departLocation)
	departUTC := departDateTime.UTC()
	record.DepartureUTC = &departUTC

	arriveClock, ok := parseClockTime(record.ArrTimeRaw)
	if !ok {
		return
	}
	arriveDate := departDate.AddDate(0, 0, record.DayOffset)
	arriveDateTime := time.Date(arriveDate.Year(), arriveDate.Month(), arriveDate.Day(),
		arriveClock.Hour(), arriveClock.Minute(), 0, 0, arriveLocation)

	// Handle cases where arrival is next day but the itinerary carried no
	// explicit day offset
	if record.DayOffset == 0 && arriveDateTime.Before(departDateTime) {
		arriveDateTime = arriveDateTime.AddDate(0, 0, 1)
	}
	arriveUTC := arriveDateTime.UTC()
	record.ArrivalUTC = &arriveUTC
}

func (p *ItineraryProcessor) airportLocation(ctx context.Context, code string) *time.Location {
	airport, err := p.airportRepo.GetByCode(ctx, code)
	if err != nil || airport == nil {
		p.logger.Debug("Airport not found", "code", code)
		return nil
	}
	location, err := time.LoadLocation(airport.TzName)
	if err != nil {
		p.logger.Warn("Error loading airport location", "code", code, "timezone", airport.TzName, "error", err)
		return nil
	}
	return location
}

// parseClockTime parses Navitas clock strings like "9:30A" or "12:05P"
func parseClockTime(raw string) (time.Time, bool) {
	t, err := time.Parse("3:04PM", raw+"M")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// attachReferenceData stores airline and airport names alongside the
// segment so readers do not need the reference tables
func (p *ItineraryProcessor) attachReferenceData(ctx context.Context, record *entity.FlightSegment) {
	enrichment := map[string]interface{}{}

	if airline, err := p.airlineRepo.GetByCode(ctx, record.Airline); err == nil && airline != nil {
		enrichment["airline_name"] = airline.Name
	}
	if origin, err := p.airportRepo.GetByCode(ctx, record.Origin); err == nil && origin != nil && origin.CityName != "" {
		enrichment["origin_city"] = origin.CityName
	}
	if destination, err := p.airportRepo.GetByCode(ctx, record.Destination); err == nil && destination != nil && destination.CityName != "" {
		enrichment["destination_city"] = destination.CityName
	}

	if len(enrichment) == 0 {
		return
	}
	if err := p.segmentRepo.SetEnrichment(ctx, record.FlightKey, enrichment); err != nil {
		p.logger.Error("Failed to store reference enrichment", "error", err, "flightKey", record.FlightKey)
	}
}
