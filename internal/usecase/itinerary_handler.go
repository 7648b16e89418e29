package usecase

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// ItineraryHandler defines the interface for itinerary content handlers
type ItineraryHandler interface {
	// CanHandle checks if this handler can process the given subject
	CanHandle(subject string) bool

	// Process handles the itinerary content
	Process(ctx context.Context, itinerary *entity.Itinerary) error
}

// SubjectRouter routes itineraries to the appropriate handler based on subject
type SubjectRouter interface {
	// Register registers a handler
	Register(handler ItineraryHandler)

	// GetHandler returns the appropriate handler for a subject
	GetHandler(subject string) ItineraryHandler
}
