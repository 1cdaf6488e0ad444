package occupancyRepo

import (
	"context"
	"time"

	"caseflow/models"
)

// OccupancyRepository provides the non-booking entity kinds that still
// consume a lawyer-resource's time: client appointments and court
// hearings. The overlap queries only return records whose status still
// occupies the resource.
type OccupancyRepository interface {
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error)
	FindAppointmentsOverlapping(ctx context.Context, lawyerID string, start, end time.Time) ([]models.Appointment, error)
	UpdateAppointment(ctx context.Context, appt *models.Appointment) error

	CreateHearing(ctx context.Context, hearing *models.Hearing) error
	FindHearingsOverlapping(ctx context.Context, lawyerID string, start, end time.Time) ([]models.Hearing, error)

	DeleteAppointmentsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteHearingsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
