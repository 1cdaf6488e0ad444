package reminderRepo

import (
	"context"
	"fmt"
	"time"

	"caseflow/models"
	"caseflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReminderRepo implements ReminderRepository using MongoDB.
type MongoReminderRepo struct {
	coll *mongo.Collection
}

// NewMongoReminderRepo constructs a repository over the given database.
func NewMongoReminderRepo(db *mongo.Database) ReminderRepository {
	return &MongoReminderRepo{coll: db.Collection("reminders")}
}

func (repo *MongoReminderRepo) CreateJobs(ctx context.Context, jobs []models.ReminderJob) error {
	if len(jobs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(jobs))
	for i := range jobs {
		docs[i] = jobs[i]
	}
	if _, err := repo.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error creating reminder jobs: %w", err)
	}
	return nil
}

func (repo *MongoReminderRepo) GetJob(ctx context.Context, id string) (*models.ReminderJob, error) {
	var job models.ReminderJob
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&job); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("reminder %s not found", id)
		}
		return nil, fmt.Errorf("error fetching reminder %s: %w", id, err)
	}
	return &job, nil
}

// CancelByBooking flags all pending reminders of a booking. Reminders
// already delivered keep their state; an in-flight dispatch that read
// its flags before this write completes is allowed to finish.
func (repo *MongoReminderRepo) CancelByBooking(ctx context.Context, bookingID string) (int64, error) {
	filter := bson.M{"booking_id": bookingID, "delivered": false}
	res, err := repo.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"cancelled": true}})
	if err != nil {
		return 0, fmt.Errorf("error cancelling reminders for booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount, nil
}

func (repo *MongoReminderRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"delivered": true, "delivered_at": at}}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error marking reminder %s delivered: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("reminder %s not found", id)
	}
	return nil
}

func (repo *MongoReminderRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := repo.coll.DeleteMany(ctx, bson.M{"fire_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("error purging reminders: %w", err)
	}
	return res.DeletedCount, nil
}
