package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/flight"
	"flightdesk-service/pkg/logger"
)

// ManualSegmentRequest is the hand-entry form. It runs through the same
// normalization as parsed itinerary lines, so casing and whitespace are
// forgiven here.
type ManualSegmentRequest struct {
	Airline       string `json:"airline" binding:"required,min=2,max=3"`
	FlightNumber  string `json:"flightNumber" binding:"required,min=1,max=4"`
	Origin        string `json:"origin" binding:"required,len=3"`
	Destination   string `json:"destination" binding:"required,len=3"`
	DepartureDate string `json:"departureDate" binding:"required,datetime=2006-01-02"`
	DepTime       string `json:"depTime"`
	ArrTime       string `json:"arrTime"`
	DayOffset     int    `json:"dayOffset" binding:"omitempty,min=0,max=3"`
}

// EnrichmentRequest carries provider fields to merge into a stored segment
type EnrichmentRequest struct {
	Enrichment map[string]interface{} `json:"enrichment" binding:"required"`
}

// ListFlightsRequest caps how many segment records come back
type ListFlightsRequest struct {
	Limit int `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
}

type FlightController struct {
	segmentRepo repository.FlightSegmentRepository
	logger      logger.Logger
}

func NewFlightController(segmentRepo repository.FlightSegmentRepository, logger logger.Logger) *FlightController {
	return &FlightController{
		segmentRepo: segmentRepo,
		logger:      logger,
	}
}

// CreateSegment stores a manually entered segment
func (fc *FlightController) CreateSegment(c *gin.Context) {
	var req ManualSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	seg := flight.NormalizeSegment(map[string]interface{}{
		"airline":      req.Airline,
		"flightNumber": req.FlightNumber,
		"origin":       req.Origin,
		"destination":  req.Destination,
		"depTimeRaw":   req.DepTime,
		"arrTimeRaw":   req.ArrTime,
		"dayOffset":    req.DayOffset,
	})

	record := &entity.FlightSegment{
		FlightKey:     flight.SegmentKey(seg, req.DepartureDate),
		Airline:       seg.Airline,
		FlightNumber:  seg.FlightNumber,
		Origin:        seg.Origin,
		Destination:   seg.Destination,
		DepartureDate: req.DepartureDate,
		DepTimeRaw:    seg.DepTimeRaw,
		ArrTimeRaw:    seg.ArrTimeRaw,
		DayOffset:     seg.DayOffset,
		Sources:       []string{entity.SourceManual},
	}

	ctx := c.Request.Context()
	if err := fc.segmentRepo.UpsertByKey(ctx, record); err != nil {
		fc.logger.Error("Failed to upsert manual segment", "error", err, "flightKey", record.FlightKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store segment"})
		return
	}

	stored, err := fc.segmentRepo.FindByKey(ctx, record.FlightKey)
	if err != nil || stored == nil {
		c.JSON(http.StatusCreated, gin.H{"flightKey": record.FlightKey})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"flightKey": stored.FlightKey,
		"flight":    stored,
	})
}

// ListFlights returns the most recently updated segment records
func (fc *FlightController) ListFlights(c *gin.Context) {
	var req ListFlightsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	flights, err := fc.segmentRepo.List(c.Request.Context(), req.Limit)
	if err != nil {
		fc.logger.Error("Failed to list flights", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flights": flights,
		"count":   len(flights),
	})
}

// GetFlight returns one segment record plus its enriched display view
func (fc *FlightController) GetFlight(c *gin.Context) {
	flightKey := c.Param("key")

	record, err := fc.segmentRepo.FindByKey(c.Request.Context(), flightKey)
	if err != nil {
		fc.logger.Error("Failed to fetch flight", "error", err, "flightKey", flightKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch flight"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flight": record,
		"view":   enrichedView(record),
	})
}

// UpdateEnrichment merges provider fields into a stored segment. Existing
// enrichment keys are overwritten, canonical identity fields never are.
func (fc *FlightController) UpdateEnrichment(c *gin.Context) {
	flightKey := c.Param("key")

	var req EnrichmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	ctx := c.Request.Context()
	record, err := fc.segmentRepo.FindByKey(ctx, flightKey)
	if err != nil {
		fc.logger.Error("Failed to fetch flight", "error", err, "flightKey", flightKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch flight"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
		return
	}

	if err := fc.segmentRepo.SetEnrichment(ctx, flightKey, req.Enrichment); err != nil {
		fc.logger.Error("Failed to store enrichment", "error", err, "flightKey", flightKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store enrichment"})
		return
	}

	updated, err := fc.segmentRepo.FindByKey(ctx, flightKey)
	if err != nil || updated == nil {
		c.JSON(http.StatusOK, gin.H{"flightKey": flightKey})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flight": updated,
		"view":   enrichedView(updated),
	})
}

// enrichedView assembles the presentation form of a stored segment
func enrichedView(record *entity.FlightSegment) flight.EnrichedSegment {
	seg := flight.NormalizedSegment{
		Airline:      record.Airline,
		FlightNumber: record.FlightNumber,
		Origin:       record.Origin,
		Destination:  record.Destination,
		DepTimeRaw:   record.DepTimeRaw,
		ArrTimeRaw:   record.ArrTimeRaw,
		DayOffset:    record.DayOffset,
	}
	return flight.Enrich(seg, record.Enrichment)
}
