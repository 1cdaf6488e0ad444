package scheduling

import (
	"context"
	"time"

	"caseflow/config"
	bookingRepo "caseflow/database/repository/booking"
	occupancyRepo "caseflow/database/repository/occupancy"
	resourceRepo "caseflow/database/repository/resource"
	"caseflow/models"
	"caseflow/utils"
)

// SchedulingService is the engine's booking surface. A thin API layer
// passes validated parameters in; persistence and notification are
// injected collaborators.
type SchedulingService interface {
	GetAvailableSlots(ctx context.Context, resourceID string, date time.Time) ([]models.Slot, error)
	BookResource(ctx context.Context, resourceID string, start, end time.Time, requester, purpose string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, reason string) (*models.Booking, error)
	RescheduleAppointment(ctx context.Context, bookingID string, newStart time.Time) (*models.Booking, error)
	GetResourceSchedule(ctx context.Context, resourceID string, start, end time.Time) (*models.ResourceSchedule, error)
	BookAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error)
	ScheduleHearing(ctx context.Context, caseID, lawyerID string, start, end time.Time) (*models.Hearing, error)
}

// ReminderArmer is the narrow reminder surface the engine needs when a
// booking is committed, rescheduled, or cancelled.
type ReminderArmer interface {
	ScheduleReminders(ctx context.Context, booking models.Booking) error
	CancelRemindersFor(ctx context.Context, bookingID string) error
}

// Config carries the scheduling parameters the engine consumes but
// does not own.
type Config struct {
	WorkingHours   models.WorkingHours
	SlotDuration   time.Duration
	BufferTime     time.Duration
	MaxAdvanceDays int
}

// ConfigFromApp builds the engine config from the loaded app config.
func ConfigFromApp() Config {
	return Config{
		WorkingHours: models.WorkingHours{
			StartHour: config.AppConfig.WorkStartHour,
			EndHour:   config.AppConfig.WorkEndHour,
		},
		SlotDuration:   time.Duration(config.AppConfig.SlotDurationMin) * time.Minute,
		BufferTime:     time.Duration(config.AppConfig.BufferMin) * time.Minute,
		MaxAdvanceDays: config.AppConfig.MaxAdvanceDays,
	}
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Resources resourceRepo.ResourceRepository
	Bookings  bookingRepo.BookingRepository
	Occupancy occupancyRepo.OccupancyRepository
	Reminders ReminderArmer
	Locker    ResourceLocker
	Clock     utils.Clock
	Config    Config
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
