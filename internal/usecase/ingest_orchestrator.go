package usecase

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
)

// IngestOrchestrator manages itinerary processing with multiple handlers
type IngestOrchestrator struct {
	itineraryRepo repository.ItineraryRepository
	router        SubjectRouter
	logger        logger.Logger
}

// NewIngestOrchestrator creates a new ingest orchestrator
func NewIngestOrchestrator(
	itineraryRepo repository.ItineraryRepository,
	router SubjectRouter,
	logger logger.Logger,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		itineraryRepo: itineraryRepo,
		router:        router,
		logger:        logger,
	}
}

// ProcessItinerary routes a single itinerary to its handler
func (o *IngestOrchestrator) ProcessItinerary(ctx context.Context, itinerary *entity.Itinerary) error {
	handler := o.router.GetHandler(itinerary.Subject)
	if handler == nil {
		o.logger.Debug("No handler found for itinerary",
			"subject", itinerary.Subject,
			"sourceId", itinerary.SourceID)

		// Not an error, just no matching handler
		return o.itineraryRepo.MarkAsProcessed(
			ctx,
			itinerary.SourceID,
			entity.StatusSkipped,
			"none",
			"No matching handler found",
			map[string]interface{}{
				"subject": itinerary.Subject,
				"reason":  "no_matching_handler",
			},
		)
	}

	handlerType := fmt.Sprintf("%T", handler)
	o.logger.Info("Processing itinerary with handler",
		"sourceId", itinerary.SourceID,
		"handler", handlerType,
		"subject", itinerary.Subject)

	if err := o.itineraryRepo.UpdateStatus(ctx, itinerary.SourceID, entity.StatusProcessing, time.Now()); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if err := handler.Process(ctx, itinerary); err != nil {
		o.logger.Error("Handler failed to process itinerary",
			"sourceId", itinerary.SourceID,
			"handler", handlerType,
			"error", err)

		// Mark as failed but don't return the error, other itineraries
		// should continue
		o.itineraryRepo.MarkAsProcessed(
			ctx,
			itinerary.SourceID,
			entity.StatusFailed,
			handlerType,
			err.Error(),
			nil,
		)
		return nil
	}

	o.logger.Info("Itinerary processed successfully",
		"sourceId", itinerary.SourceID,
		"handler", handlerType)

	return nil
}

// ProcessPendingItineraries processes any itineraries that were missed or
// failed mid-flight
func (o *IngestOrchestrator) ProcessPendingItineraries(ctx context.Context) error {
	// Put stale PROCESSING entries back in the queue first
	if err := o.itineraryRepo.ResetProcessing(ctx); err != nil {
		o.logger.Error("Failed to reset stale itineraries", "error", err)
	}

	itineraries, err := o.itineraryRepo.FindUnprocessed(ctx, 100)
	if err != nil {
		return fmt.Errorf("failed to find unprocessed itineraries: %w", err)
	}

	if len(itineraries) == 0 {
		return nil
	}

	o.logger.Info("Processing pending itineraries", "count", len(itineraries))

	for _, itinerary := range itineraries {
		if err := o.ProcessItinerary(ctx, itinerary); err != nil {
			o.logger.Error("Failed to process pending itinerary",
				"sourceId", itinerary.SourceID,
				"error", err)
		}
	}

	return nil
}
