package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/flight"
	"flightdesk-service/pkg/logger"
)

// Subject used for API submissions without one, keeps them routable
const defaultSubject = "Pasted itinerary"

// SubmitItineraryRequest is the ingest payload. Either body or htmlBody
// must be present.
type SubmitItineraryRequest struct {
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody"`
}

// PreviewItineraryRequest parses without storing anything
type PreviewItineraryRequest struct {
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody"`
}

// ListItinerariesRequest filters stored itineraries by processing status
type ListItinerariesRequest struct {
	Status string `form:"status" binding:"required,oneof=PENDING PROCESSING COMPLETED FAILED SKIPPED"`
	Limit  int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

type ItineraryController struct {
	itineraryRepo repository.ItineraryRepository
	orchestrator  *usecase.IngestOrchestrator
	logger        logger.Logger
}

func NewItineraryController(
	itineraryRepo repository.ItineraryRepository,
	orchestrator *usecase.IngestOrchestrator,
	logger logger.Logger,
) *ItineraryController {
	return &ItineraryController{
		itineraryRepo: itineraryRepo,
		orchestrator:  orchestrator,
		logger:        logger,
	}
}

// SubmitItinerary stores a pasted itinerary and processes it synchronously
func (ic *ItineraryController) SubmitItinerary(c *gin.Context) {
	var req SubmitItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}
	if req.Body == "" && req.HTMLBody == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body or htmlBody is required"})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = defaultSubject
	}

	ctx := c.Request.Context()
	itinerary := &entity.Itinerary{
		SourceID:      "api-" + primitive.NewObjectID().Hex(),
		Source:        entity.SourceAPI,
		From:          req.From,
		Subject:       subject,
		Body:          req.Body,
		HTMLBody:      req.HTMLBody,
		ReceivedAt:    time.Now(),
		ProcessStatus: entity.StatusPending,
	}
	if err := ic.itineraryRepo.Save(ctx, itinerary); err != nil {
		ic.logger.Error("Failed to save itinerary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save itinerary"})
		return
	}

	if err := ic.orchestrator.ProcessItinerary(ctx, itinerary); err != nil {
		ic.logger.Error("Failed to process itinerary", "error", err, "sourceId", itinerary.SourceID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process itinerary"})
		return
	}

	stored, err := ic.itineraryRepo.FindBySourceID(ctx, itinerary.SourceID)
	if err != nil || stored == nil {
		// Processing went through, report what we know
		c.JSON(http.StatusCreated, gin.H{"sourceId": itinerary.SourceID})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sourceId":      stored.SourceID,
		"status":        stored.ProcessStatus,
		"processSteps":  stored.ProcessSteps,
		"extractedData": stored.ExtractedData,
		"errorDetail":   stored.ErrorDetail,
	})
}

// PreviewItinerary parses and normalizes without storing anything
func (ic *ItineraryController) PreviewItinerary(c *gin.Context) {
	var req PreviewItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}
	body := req.Body
	if body == "" && req.HTMLBody != "" {
		body = usecase.ExtractItineraryText(req.HTMLBody)
	}
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body or htmlBody is required"})
		return
	}

	result := flight.ParseItinerary(body)

	segments := make([]flight.NormalizedSegment, 0, len(result.Segments))
	flightKeys := make([]string, 0, len(result.Segments))
	for _, line := range result.Segments {
		seg := flight.NormalizeSegment(line.Fields())
		segments = append(segments, seg)
		flightKeys = append(flightKeys, flight.SegmentKey(seg, line.DepartureDate))
	}

	c.JSON(http.StatusOK, gin.H{
		"segments":   segments,
		"flightKeys": flightKeys,
		"errors":     result.Errors,
		"summary":    flight.FormatSegments(segments),
	})
}

// GetItinerary returns one stored itinerary with its processing state
func (ic *ItineraryController) GetItinerary(c *gin.Context) {
	sourceID := c.Param("sourceId")

	itinerary, err := ic.itineraryRepo.FindBySourceID(c.Request.Context(), sourceID)
	if err != nil {
		ic.logger.Error("Failed to fetch itinerary", "error", err, "sourceId", sourceID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch itinerary"})
		return
	}
	if itinerary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}

	c.JSON(http.StatusOK, itinerary)
}

// ListItineraries returns itineraries in a given processing status
func (ic *ItineraryController) ListItineraries(c *gin.Context) {
	var req ListItinerariesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	itineraries, err := ic.itineraryRepo.FindByStatus(c.Request.Context(), req.Status, req.Limit)
	if err != nil {
		ic.logger.Error("Failed to list itineraries", "error", err, "status", req.Status)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list itineraries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itineraries": itineraries,
		"count":       len(itineraries),
	})
}
