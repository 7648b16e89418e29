package usecase

import (
	"context"
	"strings"

	"flightdesk-service/internal/domain/entity"
)

// NavitasHandlerAdapter adapts ItineraryProcessor to the ItineraryHandler
// interface
type NavitasHandlerAdapter struct {
	processor interface {
		ProcessItineraryText(ctx context.Context, body string, sourceID string) error
	}
	name     string
	patterns []string
}

// NewNavitasHandlerAdapter creates a new Navitas adapter
func NewNavitasHandlerAdapter(processor interface {
	ProcessItineraryText(ctx context.Context, body string, sourceID string) error
}, name string, patterns []string) *NavitasHandlerAdapter {
	return &NavitasHandlerAdapter{
		processor: processor,
		name:      name,
		patterns:  patterns,
	}
}

// CanHandle checks if this handler can process the itinerary
func (a *NavitasHandlerAdapter) CanHandle(subject string) bool {
	for _, pattern := range a.patterns {
		if strings.Contains(strings.ToLower(subject), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// Process processes the itinerary, falling back to flattened HTML when no
// plain text body is present
func (a *NavitasHandlerAdapter) Process(ctx context.Context, itinerary *entity.Itinerary) error {
	body := itinerary.Body
	if body == "" && itinerary.HTMLBody != "" {
		body = ExtractItineraryText(itinerary.HTMLBody)
	}

	return a.processor.ProcessItineraryText(ctx, body, itinerary.SourceID)
}
