package repository

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFlightSegmentRepository implements FlightSegmentRepository
type MongoFlightSegmentRepository struct {
	collection *mongo.Collection
}

// NewMongoFlightSegmentRepository creates a new flight segment repository
func NewMongoFlightSegmentRepository(db *mongo.Database) repository.FlightSegmentRepository {
	collection := db.Collection("flight_segments")

	// Unique index on flightKey makes the upsert a true merge point
	ctx := context.Background()
	keyIndex := mongo.IndexModel{
		Keys:    bson.M{"flightKey": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, keyIndex)

	routeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "origin", Value: 1},
			{Key: "destination", Value: 1},
		},
	}
	collection.Indexes().CreateOne(ctx, routeIndex)

	return &MongoFlightSegmentRepository{
		collection: collection,
	}
}

// FindByKey finds a segment by its flight key. A missing segment is not an
// error.
func (r *MongoFlightSegmentRepository) FindByKey(ctx context.Context, flightKey string) (*entity.FlightSegment, error) {
	var segment entity.FlightSegment
	err := r.collection.FindOne(ctx, bson.M{"flightKey": flightKey}).Decode(&segment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &segment, nil
}

// List returns stored segments, most recently updated first
func (r *MongoFlightSegmentRepository) List(ctx context.Context, limit int) ([]*entity.FlightSegment, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "updatedAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var segments []*entity.FlightSegment
	if err := cursor.All(ctx, &segments); err != nil {
		return nil, err
	}

	return segments, nil
}

// UpsertByKey merges the segment into the record stored under its flight
// key. Field values only move forward: a source that resolved nothing for
// a field never blanks what an earlier source resolved.
func (r *MongoFlightSegmentRepository) UpsertByKey(ctx context.Context, segment *entity.FlightSegment) error {
	now := time.Now()
	segment.UpdatedAt = now

	set := bson.M{
		"flightKey": segment.FlightKey,
		"updatedAt": segment.UpdatedAt,
	}
	if segment.Airline != "" {
		set["airline"] = segment.Airline
	}
	if segment.FlightNumber != "" {
		set["flightNumber"] = segment.FlightNumber
	}
	if segment.Origin != "" {
		set["origin"] = segment.Origin
	}
	if segment.Destination != "" {
		set["destination"] = segment.Destination
	}
	if segment.DepartureDate != "" {
		set["departureDate"] = segment.DepartureDate
	}
	if segment.DepTimeRaw != "" {
		set["depTimeRaw"] = segment.DepTimeRaw
	}
	if segment.ArrTimeRaw != "" {
		set["arrTimeRaw"] = segment.ArrTimeRaw
	}
	if segment.DayOffset > 0 {
		set["dayOffset"] = segment.DayOffset
	}
	if segment.DepartureUTC != nil {
		set["departureUtc"] = segment.DepartureUTC
	}
	if segment.ArrivalUTC != nil {
		set["arrivalUtc"] = segment.ArrivalUTC
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if len(segment.Sources) > 0 {
		update["$addToSet"] = bson.M{"sources": bson.M{"$each": segment.Sources}}
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"flightKey": segment.FlightKey}

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}

	if result.UpsertedCount > 0 && result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			segment.ID = oid.Hex()
		}
	}

	return nil
}

// SetEnrichment merges provider extras into the segment's enrichment map.
// Keys are set individually so repeated pushes accumulate instead of
// replacing each other.
func (r *MongoFlightSegmentRepository) SetEnrichment(ctx context.Context, flightKey string, enrichment map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now()}
	for key, value := range enrichment {
		set["enrichment."+key] = value
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"flightKey": flightKey},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to set enrichment: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no segment found with flightKey: %s", flightKey)
	}

	return nil
}
