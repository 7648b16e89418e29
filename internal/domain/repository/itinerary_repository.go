package repository

import (
	"context"
	"time"

	"flightdesk-service/internal/domain/entity"
)

// ItineraryRepository defines the interface for itinerary storage operations
type ItineraryRepository interface {
	Save(ctx context.Context, itinerary *entity.Itinerary) error
	FindBySourceID(ctx context.Context, sourceID string) (*entity.Itinerary, error)
	FindBySourceIDs(ctx context.Context, sourceIDs []string) (map[string]*entity.Itinerary, error)
	FindUnprocessed(ctx context.Context, limit int) ([]*entity.Itinerary, error)
	FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Itinerary, error)
	UpdateStatus(ctx context.Context, sourceID string, status string, startedAt time.Time) error
	UpdateProcessSteps(ctx context.Context, sourceID string, steps entity.ProcessSteps) error
	MarkAsProcessed(ctx context.Context, sourceID, status, processorType, errorDetail string, extractedData map[string]interface{}) error
	GetLastReceived(ctx context.Context) (*entity.Itinerary, error)
	ResetProcessing(ctx context.Context) error
}
