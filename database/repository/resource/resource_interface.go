package resourceRepo

import (
	"context"

	"caseflow/models"
)

// ResourceRepository provides access to bookable resources.
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context) ([]models.Resource, error)
	UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error
}
