package usecase

import (
	"context"
	"errors"
	"time"

	"flightdesk-service/internal/domain/entity"
)

// Manual mocks with func fields, override only what the test needs.

type mockItineraryRepo struct {
	SaveFunc               func(ctx context.Context, itinerary *entity.Itinerary) error
	FindBySourceIDFunc     func(ctx context.Context, sourceID string) (*entity.Itinerary, error)
	FindBySourceIDsFunc    func(ctx context.Context, sourceIDs []string) (map[string]*entity.Itinerary, error)
	FindUnprocessedFunc    func(ctx context.Context, limit int) ([]*entity.Itinerary, error)
	FindByStatusFunc       func(ctx context.Context, status string, limit int) ([]*entity.Itinerary, error)
	UpdateStatusFunc       func(ctx context.Context, sourceID string, status string, startedAt time.Time) error
	UpdateProcessStepsFunc func(ctx context.Context, sourceID string, steps entity.ProcessSteps) error
	MarkAsProcessedFunc    func(ctx context.Context, sourceID, status, processorType, errorDetail string, extractedData map[string]interface{}) error
	GetLastReceivedFunc    func(ctx context.Context) (*entity.Itinerary, error)
	ResetProcessingFunc    func(ctx context.Context) error
}

func (m *mockItineraryRepo) Save(ctx context.Context, itinerary *entity.Itinerary) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, itinerary)
	}
	return nil
}

func (m *mockItineraryRepo) FindBySourceID(ctx context.Context, sourceID string) (*entity.Itinerary, error) {
	if m.FindBySourceIDFunc != nil {
		return m.FindBySourceIDFunc(ctx, sourceID)
	}
	return nil, nil
}

func (m *mockItineraryRepo) FindBySourceIDs(ctx context.Context, sourceIDs []string) (map[string]*entity.Itinerary, error) {
	if m.FindBySourceIDsFunc != nil {
		return m.FindBySourceIDsFunc(ctx, sourceIDs)
	}
	return map[string]*entity.Itinerary{}, nil
}

func (m *mockItineraryRepo) FindUnprocessed(ctx context.Context, limit int) ([]*entity.Itinerary, error) {
	if m.FindUnprocessedFunc != nil {
		return m.FindUnprocessedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockItineraryRepo) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Itinerary, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status, limit)
	}
	return nil, nil
}

func (m *mockItineraryRepo) UpdateStatus(ctx context.Context, sourceID string, status string, startedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, sourceID, status, startedAt)
	}
	return nil
}

func (m *mockItineraryRepo) UpdateProcessSteps(ctx context.Context, sourceID string, steps entity.ProcessSteps) error {
	if m.UpdateProcessStepsFunc != nil {
		return m.UpdateProcessStepsFunc(ctx, sourceID, steps)
	}
	return nil
}

func (m *mockItineraryRepo) MarkAsProcessed(ctx context.Context, sourceID, status, processorType, errorDetail string, extractedData map[string]interface{}) error {
	if m.MarkAsProcessedFunc != nil {
		return m.MarkAsProcessedFunc(ctx, sourceID, status, processorType, errorDetail, extractedData)
	}
	return nil
}

func (m *mockItineraryRepo) GetLastReceived(ctx context.Context) (*entity.Itinerary, error) {
	if m.GetLastReceivedFunc != nil {
		return m.GetLastReceivedFunc(ctx)
	}
	return nil, nil
}

func (m *mockItineraryRepo) ResetProcessing(ctx context.Context) error {
	if m.ResetProcessingFunc != nil {
		return m.ResetProcessingFunc(ctx)
	}
	return nil
}

type mockSegmentRepo struct {
	FindByKeyFunc     func(ctx context.Context, flightKey string) (*entity.FlightSegment, error)
	ListFunc          func(ctx context.Context, limit int) ([]*entity.FlightSegment, error)
	UpsertByKeyFunc   func(ctx context.Context, segment *entity.FlightSegment) error
	SetEnrichmentFunc func(ctx context.Context, flightKey string, enrichment map[string]interface{}) error
}

func (m *mockSegmentRepo) FindByKey(ctx context.Context, flightKey string) (*entity.FlightSegment, error) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, flightKey)
	}
	return nil, nil
}

func (m *mockSegmentRepo) List(ctx context.Context, limit int) ([]*entity.FlightSegment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockSegmentRepo) UpsertByKey(ctx context.Context, segment *entity.FlightSegment) error {
	if m.UpsertByKeyFunc != nil {
		return m.UpsertByKeyFunc(ctx, segment)
	}
	return nil
}

func (m *mockSegmentRepo) SetEnrichment(ctx context.Context, flightKey string, enrichment map[string]interface{}) error {
	if m.SetEnrichmentFunc != nil {
		return m.SetEnrichmentFunc(ctx, flightKey, enrichment)
	}
	return nil
}

var errRefNotFound = errors.New("record not found")

type mockAirlineRepo struct {
	GetByCodeFunc func(ctx context.Context, code string) (*entity.Airline, error)
}

func (m *mockAirlineRepo) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, errRefNotFound
}

type mockAirportRepo struct {
	GetByCodeFunc func(ctx context.Context, code string) (*entity.Airport, error)
}

func (m *mockAirportRepo) GetByCode(ctx context.Context, code string) (*entity.Airport, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, errRefNotFound
}

type mockHandler struct {
	CanHandleFunc func(subject string) bool
	ProcessFunc   func(ctx context.Context, itinerary *entity.Itinerary) error
}

func (m *mockHandler) CanHandle(subject string) bool {
	if m.CanHandleFunc != nil {
		return m.CanHandleFunc(subject)
	}
	return true
}

func (m *mockHandler) Process(ctx context.Context, itinerary *entity.Itinerary) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, itinerary)
	}
	return nil
}

type stubRouter struct {
	handlers []ItineraryHandler
}

func (r *stubRouter) Register(handler ItineraryHandler) {
	r.handlers = append(r.handlers, handler)
}

func (r *stubRouter) GetHandler(subject string) ItineraryHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(subject) {
			return handler
		}
	}
	return nil
}
