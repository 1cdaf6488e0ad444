package scheduling

import (
	"context"
	"errors"
	"time"

	bookingRepo "caseflow/database/repository/booking"
	occupancyRepo "caseflow/database/repository/occupancy"
	reminderRepo "caseflow/database/repository/reminder"
	resourceRepo "caseflow/database/repository/resource"
	"caseflow/models"
	"caseflow/utils"

	"go.uber.org/zap"
)

// MaintenanceRunner bundles the periodic maintenance actions the
// recurring task scheduler drives. Each method is a self-contained
// action; failures are reported to the scheduler, which logs and
// contains them without breaking the recurrence chain.
type MaintenanceRunner struct {
	Resources resourceRepo.ResourceRepository
	Bookings  bookingRepo.BookingRepository
	Occupancy occupancyRepo.OccupancyRepository
	Reminders reminderRepo.ReminderRepository
	Analyzer  UtilizationAnalyzer
	Clock     utils.Clock
	Retention time.Duration
	Logger    *zap.Logger
}

func (m *MaintenanceRunner) now() time.Time {
	if m.Clock == nil {
		return time.Now()
	}
	return m.Clock.Now()
}

// PurgeExpiredRecords removes terminal bookings, appointments,
// hearings, and stale reminders older than the retention window.
func (m *MaintenanceRunner) PurgeExpiredRecords(ctx context.Context) error {
	cutoff := m.now().Add(-m.Retention)

	var errs []error
	bookings, err := m.Bookings.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		errs = append(errs, err)
	}
	appts, err := m.Occupancy.DeleteAppointmentsOlderThan(ctx, cutoff)
	if err != nil {
		errs = append(errs, err)
	}
	hearings, err := m.Occupancy.DeleteHearingsOlderThan(ctx, cutoff)
	if err != nil {
		errs = append(errs, err)
	}
	reminders, err := m.Reminders.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		errs = append(errs, err)
	}

	m.Logger.Info("retention purge finished",
		zap.Time("cutoff", cutoff),
		zap.Int64("bookings", bookings),
		zap.Int64("appointments", appts),
		zap.Int64("hearings", hearings),
		zap.Int64("reminders", reminders))
	return errors.Join(errs...)
}

// CompleteElapsedBookings transitions confirmed bookings whose
// interval has elapsed to completed, recording the outcome.
func (m *MaintenanceRunner) CompleteElapsedBookings(ctx context.Context) error {
	elapsed, err := m.Bookings.FindElapsedConfirmed(ctx, m.now())
	if err != nil {
		return err
	}
	var errs []error
	for i := range elapsed {
		booking := elapsed[i]
		booking.Status = models.BookingStatusCompleted
		booking.Outcome = "auto-completed after interval elapsed"
		booking.UpdatedAt = m.now()
		if err := m.Bookings.Update(ctx, &booking); err != nil {
			errs = append(errs, err)
			continue
		}
		m.Logger.Debug("booking completed", zap.String("bookingID", booking.ID))
	}
	if len(elapsed) > 0 {
		m.Logger.Info("elapsed bookings completed", zap.Int("count", len(elapsed)))
	}
	return errors.Join(errs...)
}

// LogUtilizationReport logs each resource's utilization over the past
// seven days.
func (m *MaintenanceRunner) LogUtilizationReport(ctx context.Context) error {
	resources, err := m.Resources.List(ctx)
	if err != nil {
		return err
	}
	end := m.now()
	start := end.AddDate(0, 0, -7)
	for i := range resources {
		pct, err := m.Analyzer.CalculateUtilization(ctx, resources[i].ID, start, end)
		if err != nil {
			m.Logger.Warn("utilization calculation failed",
				zap.String("resourceID", resources[i].ID), zap.Error(err))
			continue
		}
		m.Logger.Info("weekly utilization",
			zap.String("resourceID", resources[i].ID),
			zap.String("type", string(resources[i].Type)),
			zap.Float64("percent", pct))
	}
	return nil
}
