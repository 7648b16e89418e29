package repository

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoItineraryRepository implements the ItineraryRepository interface
type MongoItineraryRepository struct {
	collection *mongo.Collection
}

// NewMongoItineraryRepository creates a new MongoDB itinerary repository
func NewMongoItineraryRepository(db *mongo.Database) repository.ItineraryRepository {
	collection := db.Collection("itineraries")

	ctx := context.Background()

	// sourceId is the dedupe key across ingest paths
	sourceIDIndex := mongo.IndexModel{
		Keys:    bson.M{"sourceId": 1},
		Options: options.Index().SetUnique(true),
	}

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"processStatus": 1},
	}

	receivedAtIndex := mongo.IndexModel{
		Keys: bson.M{"receivedAt": -1},
	}

	// Compound index so the pending-itinerary sweep stays cheap
	unprocessedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "processStatus", Value: 1},
			{Key: "receivedAt", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		sourceIDIndex,
		statusIndex,
		receivedAtIndex,
		unprocessedIndex,
	})

	return &MongoItineraryRepository{
		collection: collection,
	}
}

// Save stores a new itinerary, defaulting it to PENDING
func (r *MongoItineraryRepository) Save(ctx context.Context, itinerary *entity.Itinerary) error {
	if itinerary.ProcessStatus == "" {
		itinerary.ProcessStatus = entity.StatusPending
	}
	if itinerary.ReceivedAt.IsZero() {
		itinerary.ReceivedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, itinerary)
	return err
}

// FindBySourceID finds an itinerary by its source ID. A missing itinerary
// is not an error: callers use this to dedupe.
func (r *MongoItineraryRepository) FindBySourceID(ctx context.Context, sourceID string) (*entity.Itinerary, error) {
	var itinerary entity.Itinerary
	err := r.collection.FindOne(ctx, bson.M{"sourceId": sourceID}).Decode(&itinerary)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

// FindBySourceIDs finds multiple itineraries by source ID in one query
func (r *MongoItineraryRepository) FindBySourceIDs(ctx context.Context, sourceIDs []string) (map[string]*entity.Itinerary, error) {
	if len(sourceIDs) == 0 {
		return make(map[string]*entity.Itinerary), nil
	}

	filter := bson.M{"sourceId": bson.M{"$in": sourceIDs}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make(map[string]*entity.Itinerary)
	for cursor.Next(ctx) {
		var itinerary entity.Itinerary
		if err := cursor.Decode(&itinerary); err != nil {
			continue
		}
		result[itinerary.SourceID] = &itinerary
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// FindUnprocessed finds itineraries still waiting for processing, oldest
// first
func (r *MongoItineraryRepository) FindUnprocessed(ctx context.Context, limit int) ([]*entity.Itinerary, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"processStatus": ""},
			{"processStatus": entity.StatusPending},
			{"processStatus": bson.M{"$exists": false}},
		},
	}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var itineraries []*entity.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}

	return itineraries, nil
}

// FindByStatus finds itineraries by status, most recent first
func (r *MongoItineraryRepository) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Itinerary, error) {
	filter := bson.M{"processStatus": status}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "receivedAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var itineraries []*entity.Itinerary
	if err := cursor.All(ctx, &itineraries); err != nil {
		return nil, err
	}

	return itineraries, nil
}

// UpdateStatus updates just the status and, when moving to PROCESSING, the
// started time
func (r *MongoItineraryRepository) UpdateStatus(ctx context.Context, sourceID string, status string, startedAt time.Time) error {
	set := bson.M{
		"processStatus": status,
	}
	if status == entity.StatusProcessing && !startedAt.IsZero() {
		set["processStartedAt"] = startedAt
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"sourceId": sourceID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no itinerary found with sourceId: %s", sourceID)
	}

	return nil
}

// UpdateProcessSteps updates the processing step counters
func (r *MongoItineraryRepository) UpdateProcessSteps(ctx context.Context, sourceID string, steps entity.ProcessSteps) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"sourceId": sourceID},
		bson.M{"$set": bson.M{"processSteps": steps}},
	)
	return err
}

// MarkAsProcessed records the terminal status of an itinerary along with
// whatever was extracted from it
func (r *MongoItineraryRepository) MarkAsProcessed(ctx context.Context, sourceID, status, processorType, errorDetail string, extractedData map[string]interface{}) error {
	set := bson.M{
		"processedAt":   time.Now(),
		"processStatus": status,
		"processorType": processorType,
	}
	if len(extractedData) > 0 {
		set["extractedData"] = extractedData
	}
	if errorDetail != "" {
		set["errorDetail"] = errorDetail
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"sourceId": sourceID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no itinerary found with sourceId: %s", sourceID)
	}

	return nil
}

// GetLastReceived gets the most recently received itinerary. Used to pick
// the starting point for Gmail polling.
func (r *MongoItineraryRepository) GetLastReceived(ctx context.Context) (*entity.Itinerary, error) {
	var itinerary entity.Itinerary
	opts := options.FindOne().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&itinerary)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

// ResetProcessing returns itineraries stuck in PROCESSING for more than
// five minutes to PENDING so the next sweep retries them
func (r *MongoItineraryRepository) ResetProcessing(ctx context.Context) error {
	staleTime := time.Now().Add(-5 * time.Minute)

	filter := bson.M{
		"processStatus": entity.StatusProcessing,
		"$or": []bson.M{
			{"processStartedAt": bson.M{"$lt": staleTime}},
			{"processStartedAt": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"processStatus": entity.StatusPending,
			"errorDetail":   "Reset from stale PROCESSING state",
		},
	}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}
