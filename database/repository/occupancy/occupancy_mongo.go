package occupancyRepo

import (
	"context"
	"fmt"
	"time"

	"caseflow/models"
	"caseflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOccupancyRepo implements OccupancyRepository using MongoDB.
type MongoOccupancyRepo struct {
	apptColl    *mongo.Collection
	hearingColl *mongo.Collection
}

// NewMongoOccupancyRepo constructs a repository over the given database.
func NewMongoOccupancyRepo(db *mongo.Database) OccupancyRepository {
	return &MongoOccupancyRepo{
		apptColl:    db.Collection("appointments"),
		hearingColl: db.Collection("hearings"),
	}
}

func (repo *MongoOccupancyRepo) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if _, err := repo.apptColl.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("error creating appointment: %w", err)
	}
	return nil
}

func (repo *MongoOccupancyRepo) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := repo.apptColl.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("appointment %s not found", id)
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (repo *MongoOccupancyRepo) FindAppointmentsOverlapping(ctx context.Context, lawyerID string, start, end time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"lawyer_id": lawyerID,
		"status":    bson.M{"$in": bson.A{models.AppointmentStatusPending, models.AppointmentStatusConfirmed}},
		"start":     bson.M{"$lt": end},
		"end":       bson.M{"$gt": start},
	}
	cursor, err := repo.apptColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (repo *MongoOccupancyRepo) UpdateAppointment(ctx context.Context, appt *models.Appointment) error {
	res, err := repo.apptColl.UpdateOne(ctx, bson.M{"id": appt.ID}, bson.M{"$set": appt})
	if err != nil {
		return fmt.Errorf("error updating appointment %s: %w", appt.ID, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("appointment %s not found", appt.ID)
	}
	return nil
}

func (repo *MongoOccupancyRepo) CreateHearing(ctx context.Context, hearing *models.Hearing) error {
	if _, err := repo.hearingColl.InsertOne(ctx, hearing); err != nil {
		return fmt.Errorf("error creating hearing: %w", err)
	}
	return nil
}

func (repo *MongoOccupancyRepo) FindHearingsOverlapping(ctx context.Context, lawyerID string, start, end time.Time) ([]models.Hearing, error) {
	filter := bson.M{
		"lawyer_id": lawyerID,
		"status":    models.HearingStatusScheduled,
		"start":     bson.M{"$lt": end},
		"end":       bson.M{"$gt": start},
	}
	cursor, err := repo.hearingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping hearings: %w", err)
	}
	defer cursor.Close(ctx)

	var hearings []models.Hearing
	if err := cursor.All(ctx, &hearings); err != nil {
		return nil, fmt.Errorf("error decoding hearings: %w", err)
	}
	return hearings, nil
}

func (repo *MongoOccupancyRepo) DeleteAppointmentsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status": bson.M{"$in": bson.A{models.AppointmentStatusCancelled, models.AppointmentStatusCompleted}},
		"end":    bson.M{"$lt": cutoff},
	}
	res, err := repo.apptColl.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error purging appointments: %w", err)
	}
	return res.DeletedCount, nil
}

func (repo *MongoOccupancyRepo) DeleteHearingsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"status": bson.M{"$ne": models.HearingStatusScheduled},
		"end":    bson.M{"$lt": cutoff},
	}
	res, err := repo.hearingColl.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error purging hearings: %w", err)
	}
	return res.DeletedCount, nil
}
