package rest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
)

// In-memory repositories mirroring the Mongo merge semantics, so handler
// tests exercise the full submit-process-read flow.

type memItineraryRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Itinerary
}

func newMemItineraryRepo() *memItineraryRepo {
	return &memItineraryRepo{items: map[string]*entity.Itinerary{}}
}

func (m *memItineraryRepo) Save(_ context.Context, itinerary *entity.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[itinerary.SourceID]; ok {
		return errors.New("duplicate sourceId")
	}
	copied := *itinerary
	if copied.ProcessStatus == "" {
		copied.ProcessStatus = entity.StatusPending
	}
	if copied.ReceivedAt.IsZero() {
		copied.ReceivedAt = time.Now()
	}
	m.items[copied.SourceID] = &copied
	return nil
}

func (m *memItineraryRepo) FindBySourceID(_ context.Context, sourceID string) (*entity.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	itinerary, ok := m.items[sourceID]
	if !ok {
		return nil, nil
	}
	copied := *itinerary
	return &copied, nil
}

func (m *memItineraryRepo) FindBySourceIDs(_ context.Context, sourceIDs []string) (map[string]*entity.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := map[string]*entity.Itinerary{}
	for _, sourceID := range sourceIDs {
		if itinerary, ok := m.items[sourceID]; ok {
			copied := *itinerary
			found[sourceID] = &copied
		}
	}
	return found, nil
}

func (m *memItineraryRepo) FindUnprocessed(_ context.Context, limit int) ([]*entity.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unprocessed []*entity.Itinerary
	for _, itinerary := range m.items {
		if itinerary.ProcessStatus == "" || itinerary.ProcessStatus == entity.StatusPending {
			copied := *itinerary
			unprocessed = append(unprocessed, &copied)
		}
	}
	sort.Slice(unprocessed, func(i, j int) bool {
		return unprocessed[i].ReceivedAt.Before(unprocessed[j].ReceivedAt)
	})
	if limit > 0 && len(unprocessed) > limit {
		unprocessed = unprocessed[:limit]
	}
	return unprocessed, nil
}

func (m *memItineraryRepo) FindByStatus(_ context.Context, status string, limit int) ([]*entity.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*entity.Itinerary
	for _, itinerary := range m.items {
		if itinerary.ProcessStatus == status {
			copied := *itinerary
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReceivedAt.After(matched[j].ReceivedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *memItineraryRepo) UpdateStatus(_ context.Context, sourceID string, status string, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	itinerary, ok := m.items[sourceID]
	if !ok {
		return errors.New("itinerary not found")
	}
	itinerary.ProcessStatus = status
	if status == entity.StatusProcessing && !startedAt.IsZero() {
		itinerary.ProcessStartedAt = startedAt
	}
	return nil
}

func (m *memItineraryRepo) UpdateProcessSteps(_ context.Context, sourceID string, steps entity.ProcessSteps) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	itinerary, ok := m.items[sourceID]
	if !ok {
		return errors.New("itinerary not found")
	}
	itinerary.ProcessSteps = steps
	return nil
}

func (m *memItineraryRepo) MarkAsProcessed(_ context.Context, sourceID, status, processorType, errorDetail string, extractedData map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	itinerary, ok := m.items[sourceID]
	if !ok {
		return errors.New("itinerary not found")
	}
	itinerary.ProcessedAt = time.Now()
	itinerary.ProcessStatus = status
	itinerary.ProcessorType = processorType
	if errorDetail != "" {
		itinerary.ErrorDetail = errorDetail
	}
	if extractedData != nil {
		itinerary.ExtractedData = extractedData
	}
	return nil
}

func (m *memItineraryRepo) GetLastReceived(_ context.Context) (*entity.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *entity.Itinerary
	for _, itinerary := range m.items {
		if last == nil || itinerary.ReceivedAt.After(last.ReceivedAt) {
			last = itinerary
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

func (m *memItineraryRepo) ResetProcessing(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	threshold := time.Now().Add(-5 * time.Minute)
	for _, itinerary := range m.items {
		if itinerary.ProcessStatus == entity.StatusProcessing && itinerary.ProcessStartedAt.Before(threshold) {
			itinerary.ProcessStatus = entity.StatusPending
		}
	}
	return nil
}

type memSegmentRepo struct {
	mu    sync.Mutex
	items map[string]*entity.FlightSegment
}

func newMemSegmentRepo() *memSegmentRepo {
	return &memSegmentRepo{items: map[string]*entity.FlightSegment{}}
}

func (m *memSegmentRepo) FindByKey(_ context.Context, flightKey string) (*entity.FlightSegment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	segment, ok := m.items[flightKey]
	if !ok {
		return nil, nil
	}
	copied := *segment
	return &copied, nil
}

func (m *memSegmentRepo) List(_ context.Context, limit int) ([]*entity.FlightSegment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var segments []*entity.FlightSegment
	for _, segment := range m.items {
		copied := *segment
		segments = append(segments, &copied)
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].UpdatedAt.After(segments[j].UpdatedAt)
	})
	if limit > 0 && len(segments) > limit {
		segments = segments[:limit]
	}
	return segments, nil
}

// UpsertByKey keeps the forward-only merge: incoming empty fields never
// clear stored values, sources accumulate
func (m *memSegmentRepo) UpsertByKey(_ context.Context, segment *entity.FlightSegment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	existing, ok := m.items[segment.FlightKey]
	if !ok {
		copied := *segment
		copied.CreatedAt = now
		copied.UpdatedAt = now
		m.items[segment.FlightKey] = &copied
		return nil
	}

	if segment.Airline != "" {
		existing.Airline = segment.Airline
	}
	if segment.FlightNumber != "" {
		existing.FlightNumber = segment.FlightNumber
	}
	if segment.Origin != "" {
		existing.Origin = segment.Origin
	}
	if segment.Destination != "" {
		existing.Destination = segment.Destination
	}
	if segment.DepartureDate != "" {
		existing.DepartureDate = segment.DepartureDate
	}
	if segment.DepTimeRaw != "" {
		existing.DepTimeRaw = segment.DepTimeRaw
	}
	if segment.ArrTimeRaw != "" {
		existing.ArrTimeRaw = segment.ArrTimeRaw
	}
	if segment.DayOffset > 0 {
		existing.DayOffset = segment.DayOffset
	}
	if segment.DepartureUTC != nil {
		existing.DepartureUTC = segment.DepartureUTC
	}
	if segment.ArrivalUTC != nil {
		existing.ArrivalUTC = segment.ArrivalUTC
	}
	for _, source := range segment.Sources {
		if !containsString(existing.Sources, source) {
			existing.Sources = append(existing.Sources, source)
		}
	}
	existing.UpdatedAt = now
	return nil
}

func (m *memSegmentRepo) SetEnrichment(_ context.Context, flightKey string, enrichment map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	segment, ok := m.items[flightKey]
	if !ok {
		return errors.New("segment not found")
	}
	if segment.Enrichment == nil {
		segment.Enrichment = map[string]interface{}{}
	}
	for key, value := range enrichment {
		segment.Enrichment[key] = value
	}
	segment.UpdatedAt = time.Now()
	return nil
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

type memAirlineRepo struct {
	byCode map[string]*entity.Airline
}

func (m *memAirlineRepo) GetByCode(_ context.Context, code string) (*entity.Airline, error) {
	if airline, ok := m.byCode[code]; ok {
		return airline, nil
	}
	return nil, errors.New("record not found")
}

type memAirportRepo struct {
	byCode map[string]*entity.Airport
}

func (m *memAirportRepo) GetByCode(_ context.Context, code string) (*entity.Airport, error) {
	if airport, ok := m.byCode[code]; ok {
		return airport, nil
	}
	return nil, errors.New("record not found")
}
