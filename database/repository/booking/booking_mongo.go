package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"caseflow/models"
	"caseflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a repository over the given database.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

func occupyingStatuses() bson.A {
	return bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("booking %s not found", id)
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// FindOverlapping returns occupying bookings intersecting [start, end).
func (repo *MongoBookingRepo) FindOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"resource_id": resourceID,
		"status":      bson.M{"$in": occupyingStatuses()},
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoBookingRepo) FindByResourceInRange(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"resource_id": resourceID,
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoBookingRepo) FindCompletedInRange(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"resource_id": resourceID,
		"status":      models.BookingStatusCompleted,
		"start":       bson.M{"$lt": end},
		"end":         bson.M{"$gt": start},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoBookingRepo) FindElapsedConfirmed(ctx context.Context, before time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status": models.BookingStatusConfirmed,
		"end":    bson.M{"$lte": before},
	}
	return repo.find(ctx, filter)
}

func (repo *MongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// Update replaces the stored booking document in a single write, so
// readers never observe a partially mutated record.
func (repo *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": booking.ID}, bson.M{"$set": booking})
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("booking %s not found", booking.ID)
	}
	return nil
}

// DeleteOlderThan removes terminal bookings whose interval ended before
// the cutoff. Retention is enforced by the maintenance task, never by
// the booking engine itself.
func (repo *MongoBookingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status": bson.M{"$in": bson.A{models.BookingStatusCancelled, models.BookingStatusCompleted}},
		"end":    bson.M{"$lt": cutoff},
	}
	res, err := repo.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error purging bookings: %w", err)
	}
	return res.DeletedCount, nil
}
