package reminder

import (
	"context"
	"fmt"
	"time"

	reminderRepo "caseflow/database/repository/reminder"
	"caseflow/models"
	"caseflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultOffsets are the lead times before a booking's start at which
// reminders fire.
var DefaultOffsets = []time.Duration{
	7 * 24 * time.Hour,
	24 * time.Hour,
	2 * time.Hour,
}

// ReminderScheduler arms and cancels per-booking reminders.
//
// Cancellation ordering is deterministic by design: the worker reads a
// job's cancelled flag exactly once, immediately before dispatch. A
// cancellation observed at that read suppresses the dispatch; a
// cancellation arriving after the read has no effect on that
// already-started dispatch and only prevents future ones.
type ReminderScheduler interface {
	ScheduleReminders(ctx context.Context, booking models.Booking) error
	CancelRemindersFor(ctx context.Context, bookingID string) error
}

// DefaultReminderScheduler is the production implementation.
type DefaultReminderScheduler struct {
	Repo    reminderRepo.ReminderRepository
	Queue   TaskQueue
	Clock   utils.Clock
	Offsets []time.Duration
	Logger  *zap.Logger
}

func (s *DefaultReminderScheduler) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *DefaultReminderScheduler) offsets() []time.Duration {
	if len(s.Offsets) == 0 {
		return DefaultOffsets
	}
	return s.Offsets
}

func (s *DefaultReminderScheduler) logger() *zap.Logger {
	if s.Logger == nil {
		return utils.GetLogger()
	}
	return s.Logger
}

// ScheduleReminders computes the booking's fire times from the
// configured offsets, persists the jobs, and enqueues them. Offsets
// whose fire time has already passed are dropped, not fired late.
func (s *DefaultReminderScheduler) ScheduleReminders(ctx context.Context, booking models.Booking) error {
	now := s.now()
	var jobs []models.ReminderJob
	for _, offset := range s.offsets() {
		fireAt := booking.Start.Add(-offset)
		if !fireAt.After(now) {
			continue
		}
		jobs = append(jobs, models.ReminderJob{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Recipient: booking.Requester,
			Message: fmt.Sprintf("Reminder: your booking %q starts %s",
				booking.Purpose, booking.Start.Format("Mon Jan 2 15:04")),
			FireAt:    fireAt,
			CreatedAt: now,
		})
	}
	if len(jobs) == 0 {
		return nil
	}

	// Persist before enqueueing so the worker always finds the job and
	// its flags, even if the queue delivers early duplicates.
	if err := s.Repo.CreateJobs(ctx, jobs); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := s.Queue.Enqueue(ctx, job); err != nil {
			return err
		}
		s.logger().Debug("reminder armed",
			zap.String("bookingID", booking.ID),
			zap.String("reminderID", job.ID),
			zap.Time("fireAt", job.FireAt))
	}
	return nil
}

// CancelRemindersFor marks all of a booking's pending reminders
// cancelled. Queued tasks are left in place; the worker suppresses
// them at dispatch time via the flag.
func (s *DefaultReminderScheduler) CancelRemindersFor(ctx context.Context, bookingID string) error {
	n, err := s.Repo.CancelByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger().Info("reminders cancelled",
			zap.String("bookingID", bookingID), zap.Int64("count", n))
	}
	return nil
}
