package reminderRepo

import (
	"context"
	"time"

	"caseflow/models"
)

// ReminderRepository persists reminder jobs so due-times survive a
// process restart and cancellation flags have a single source of truth.
type ReminderRepository interface {
	CreateJobs(ctx context.Context, jobs []models.ReminderJob) error
	GetJob(ctx context.Context, id string) (*models.ReminderJob, error)
	CancelByBooking(ctx context.Context, bookingID string) (int64, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
