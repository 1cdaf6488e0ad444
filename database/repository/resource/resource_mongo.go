package resourceRepo

import (
	"context"
	"fmt"

	"caseflow/models"
	"caseflow/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoResourceRepo implements ResourceRepository using MongoDB.
type MongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a repository over the given database.
func NewMongoResourceRepo(db *mongo.Database) ResourceRepository {
	return &MongoResourceRepo{coll: db.Collection("resources")}
}

func (repo *MongoResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	if _, err := repo.coll.InsertOne(ctx, resource); err != nil {
		return fmt.Errorf("error creating resource: %w", err)
	}
	return nil
}

func (repo *MongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	var resource models.Resource
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&resource); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("resource %s not found", id)
		}
		return nil, fmt.Errorf("error fetching resource %s: %w", id, err)
	}
	return &resource, nil
}

func (repo *MongoResourceRepo) List(ctx context.Context) ([]models.Resource, error) {
	cursor, err := repo.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing resources: %w", err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, fmt.Errorf("error decoding resources: %w", err)
	}
	return resources, nil
}

func (repo *MongoResourceRepo) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("error updating status for resource %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return utils.NewNotFoundError("resource %s not found", id)
	}
	return nil
}
