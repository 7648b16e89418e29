package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
)

// How far back the first fetch reaches when the store is empty
const defaultLookback = 30 * 24 * time.Hour

// GmailService polls a mailbox and feeds matching messages into the
// itinerary pipeline
type GmailService struct {
	gmailService  *gmail.Service
	itineraryRepo repository.ItineraryRepository
	orchestrator  *usecase.IngestOrchestrator
	logger        logger.Logger
	pollInterval  time.Duration
	subjectFilter []string
}

// NewGmailService creates a new Gmail service
func NewGmailService(
	ctx context.Context,
	tokenSource oauth2.TokenSource,
	itineraryRepo repository.ItineraryRepository,
	orchestrator *usecase.IngestOrchestrator,
	logger logger.Logger,
	pollInterval time.Duration,
	subjectFilter []string,
) (*GmailService, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailService{
		gmailService:  service,
		itineraryRepo: itineraryRepo,
		orchestrator:  orchestrator,
		logger:        logger,
		pollInterval:  pollInterval,
		subjectFilter: subjectFilter,
	}, nil
}

// FetchItineraries fetches new messages from Gmail, stores the matching
// ones and processes them immediately
func (s *GmailService) FetchItineraries(ctx context.Context) error {
	last, _ := s.itineraryRepo.GetLastReceived(ctx)
	var fetchFrom time.Time
	var hasLast bool

	if last != nil && !last.ReceivedAt.IsZero() {
		fetchFrom = last.ReceivedAt
		hasLast = true
		s.logger.Info("Using last received itinerary time",
			"lastReceivedAt", fetchFrom.Format("2006-01-02 15:04:05 UTC"))
	} else {
		fetchFrom = time.Now().Add(-defaultLookback)
		hasLast = false
		s.logger.Info("No previous itineraries, using default lookback",
			"startDate", fetchFrom.Format("2006-01-02 15:04:05 UTC"))
	}

	queryDate := fetchFrom
	if hasLast {
		// Go back 3 days to catch any messages we might have missed
		queryDate = fetchFrom.AddDate(0, 0, -3)
	}

	query := fmt.Sprintf("after:%s", queryDate.Format("2006/01/02"))
	s.logger.Info("Querying Gmail",
		"query", query,
		"actualCutoffTime", fetchFrom.Format("2006-01-02 15:04:05 UTC"))

	req := s.gmailService.Users.Messages.List("me").Q(query)
	resp, err := req.Do()
	if err != nil {
		s.logger.Error("Failed to list messages", "error", err)
		return err
	}

	if len(resp.Messages) == 0 {
		s.logger.Info("No new messages found")
		return nil
	}

	sourceIDs := make([]string, len(resp.Messages))
	for i, msg := range resp.Messages {
		sourceIDs[i] = msg.Id
	}

	existing, err := s.itineraryRepo.FindBySourceIDs(ctx, sourceIDs)
	if err != nil {
		s.logger.Error("Failed to batch check existing itineraries", "error", err)
		existing = make(map[string]*entity.Itinerary)
	}

	newCount := 0
	skippedOldCount := 0
	skippedExistingCount := 0

	for _, msg := range resp.Messages {
		// Skip if already in database
		if _, exists := existing[msg.Id]; exists {
			s.logger.Debug("Itinerary already exists in database", "sourceId", msg.Id)
			skippedExistingCount++
			continue
		}

		fullMsg, err := s.gmailService.Users.Messages.Get("me", msg.Id).Do()
		if err != nil {
			s.logger.Error("Failed to get message", "sourceId", msg.Id, "error", err)
			continue
		}

		messageTime := time.Unix(0, fullMsg.InternalDate*int64(time.Millisecond))

		if hasLast && !messageTime.After(fetchFrom) {
			s.logger.Debug("Message not after last received itinerary time",
				"sourceId", msg.Id,
				"messageTime", messageTime.Format("2006-01-02 15:04:05 UTC"),
				"lastReceivedTime", fetchFrom.Format("2006-01-02 15:04:05 UTC"))
			skippedOldCount++
			continue
		}

		itinerary, err := s.convertToItinerary(fullMsg)
		if err != nil {
			s.logger.Error("Failed to convert message", "sourceId", msg.Id, "error", err)
			continue
		}

		// Apply subject filter
		if !s.FilterPattern(itinerary.Subject) {
			s.logger.Debug("Message doesn't match subject filter", "subject", itinerary.Subject)
			continue
		}

		s.logger.Info("Storing new itinerary",
			"subject", itinerary.Subject,
			"sourceId", itinerary.SourceID,
			"receivedAt", itinerary.ReceivedAt.Format("2006-01-02 15:04:05 UTC"))

		if err := s.itineraryRepo.Save(ctx, itinerary); err != nil {
			s.logger.Error("Failed to save itinerary", "sourceId", msg.Id, "error", err)
			continue
		}
		newCount++

		// Process immediately, the pending sweep is only a safety net
		if err := s.orchestrator.ProcessItinerary(ctx, itinerary); err != nil {
			s.logger.Error("Failed to process itinerary", "sourceId", msg.Id, "error", err)
		}
	}

	s.logger.Info("Gmail fetch completed",
		"totalFromGmail", len(resp.Messages),
		"alreadyInDB", skippedExistingCount,
		"skippedOld", skippedOldCount,
		"newItineraries", newCount)

	return nil
}

// StartPolling starts polling Gmail for new messages
func (s *GmailService) StartPolling(ctx context.Context) {
	// Catch up anything left over from a previous run
	if err := s.orchestrator.ProcessPendingItineraries(ctx); err != nil {
		s.logger.Error("Failed to process pending itineraries on startup", "error", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Gmail polling stopped")
			return
		case <-ticker.C:
			s.logger.Info("Polling Gmail for new messages")
			if err := s.FetchItineraries(ctx); err != nil {
				s.logger.Error("Error polling Gmail", "error", err)
			}
		}
	}
}

// FilterPattern reports whether a subject is worth storing. An empty
// filter stores everything and lets the router decide.
func (s *GmailService) FilterPattern(subject string) bool {
	if len(s.subjectFilter) == 0 {
		return true
	}
	for _, pattern := range s.subjectFilter {
		if strings.Contains(strings.ToLower(subject), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// convertToItinerary converts a Gmail message to our domain entity
func (s *GmailService) convertToItinerary(msg *gmail.Message) (*entity.Itinerary, error) {
	itinerary := &entity.Itinerary{
		SourceID: msg.Id,
		Source:   entity.SourceGmail,
	}

	// Extract header information
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			itinerary.From = header.Value
		case "Subject":
			itinerary.Subject = header.Value
		}
	}

	// Extract message body
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		if err != nil {
			return nil, err
		}
		itinerary.Body = string(data)
	}

	// Handle multipart messages
	for _, part := range msg.Payload.Parts {
		if part.Body == nil || part.Body.Data == "" {
			continue
		}
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			itinerary.Body = string(data)
		case "text/html":
			itinerary.HTMLBody = string(data)
		}
	}

	itinerary.ReceivedAt = time.Unix(0, msg.InternalDate*int64(time.Millisecond))

	return itinerary, nil
}
