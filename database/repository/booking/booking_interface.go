package bookingRepo

import (
	"context"
	"time"

	"caseflow/models"
)

// BookingRepository provides access to booking records. FindOverlapping
// only considers bookings whose status still occupies the resource
// (pending, confirmed).
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	FindOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error)
	FindByResourceInRange(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error)
	FindCompletedInRange(ctx context.Context, resourceID string, start, end time.Time) ([]models.Booking, error)
	FindElapsedConfirmed(ctx context.Context, before time.Time) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
