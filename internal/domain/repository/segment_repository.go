package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// FlightSegmentRepository defines the interface for flight segment operations
type FlightSegmentRepository interface {
	FindByKey(ctx context.Context, flightKey string) (*entity.FlightSegment, error)
	List(ctx context.Context, limit int) ([]*entity.FlightSegment, error)
	UpsertByKey(ctx context.Context, segment *entity.FlightSegment) error
	SetEnrichment(ctx context.Context, flightKey string, enrichment map[string]interface{}) error
}
