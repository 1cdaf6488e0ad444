package scheduling

import (
	"context"
	"strings"
	"time"

	"caseflow/models"
	"caseflow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookResource commits a booking for [start, end) on the resource. The
// availability check re-runs inside the per-resource critical section,
// so two concurrent requests for overlapping intervals can never both
// succeed. On conflict no record is created.
func (s *DefaultSchedulingService) BookResource(ctx context.Context, resourceID string, start, end time.Time, requester, purpose string) (*models.Booking, error) {
	if requester == "" {
		return nil, utils.NewValidationError("requester is required")
	}
	slot := models.Slot{Start: start, End: end}
	if err := ValidateSlot(s.now(), slot, s.Config.WorkingHours, s.Config.MaxAdvanceDays); err != nil {
		return nil, err
	}

	resource, err := s.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.Lock(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.CheckScheduleConflict(ctx, resource, start, end); err != nil {
		return nil, err
	}

	now := s.now()
	booking := &models.Booking{
		ID:         uuid.New().String(),
		ResourceID: resourceID,
		Start:      start,
		End:        end,
		Purpose:    purpose,
		Requester:  requester,
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.armReminders(ctx, *booking)
	return booking, nil
}

// CancelBooking is idempotent: cancelling an already-cancelled booking
// returns the current state without a second side effect. Cancelling a
// completed booking is a StateError.
func (s *DefaultSchedulingService) CancelBooking(ctx context.Context, bookingID, reason string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.Lock(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock so the transition races with no other
	// writer on this resource.
	booking, err = s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.Status {
	case models.BookingStatusCancelled:
		return booking, nil
	case models.BookingStatusCompleted:
		return nil, utils.NewStateError("booking %s is completed and cannot be cancelled", bookingID)
	}

	updated := *booking
	updated.Status = models.BookingStatusCancelled
	updated.CancelReason = reason
	updated.UpdatedAt = s.now()
	if err := s.Bookings.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if s.Reminders != nil {
		if err := s.Reminders.CancelRemindersFor(ctx, bookingID); err != nil {
			utils.GetLogger().Warn("failed to cancel reminders for booking",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}
	return &updated, nil
}

// RescheduleAppointment moves a booking to a new start, keeping its
// duration. The new interval is validated and conflict-checked before
// any mutation; on failure the stored booking is untouched, and the
// move itself is a single document replace, so concurrent readers
// never observe a partial mutation.
func (s *DefaultSchedulingService) RescheduleAppointment(ctx context.Context, bookingID string, newStart time.Time) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resource, err := s.Resources.GetByID(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}

	release, err := s.Locker.Lock(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock: a cancel that landed after the first read
	// must not be overwritten with the stale confirmed snapshot.
	booking, err = s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Occupies() {
		return nil, utils.NewStateError("booking %s is %s and cannot be rescheduled", bookingID, booking.Status)
	}

	duration := booking.End.Sub(booking.Start)
	newEnd := newStart.Add(duration)
	slot := models.Slot{Start: newStart, End: newEnd}
	if err := ValidateSlot(s.now(), slot, s.Config.WorkingHours, s.Config.MaxAdvanceDays); err != nil {
		return nil, err
	}

	// The booking's own interval must not block its new one.
	if err := s.checkConflictExcluding(ctx, resource, newStart, newEnd, bookingID); err != nil {
		return nil, err
	}

	updated := *booking
	updated.Start = newStart
	updated.End = newEnd
	updated.UpdatedAt = s.now()
	if err := s.Bookings.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if s.Reminders != nil {
		if err := s.Reminders.CancelRemindersFor(ctx, bookingID); err != nil {
			utils.GetLogger().Warn("failed to cancel reminders before re-arming",
				zap.String("bookingID", bookingID), zap.Error(err))
		}
	}
	s.armReminders(ctx, updated)
	return &updated, nil
}

// GetResourceSchedule assembles the resource with its derived status,
// the bookings inside [start, end), and the free availability that
// remains around every commitment.
func (s *DefaultSchedulingService) GetResourceSchedule(ctx context.Context, resourceID string, start, end time.Time) (*models.ResourceSchedule, error) {
	if !end.After(start) {
		return nil, utils.NewValidationError("schedule range end must be after start")
	}
	resource, err := s.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	bookings, err := s.Bookings.FindByResourceInRange(ctx, resourceID, start, end)
	if err != nil {
		return nil, err
	}
	occupied, err := s.occupiedIntervals(ctx, resourceID, start, end, "")
	if err != nil {
		return nil, err
	}

	view := *resource
	view.Status = s.derivedStatus(resource, occupied)
	return &models.ResourceSchedule{
		Resource:     view,
		Bookings:     bookings,
		Availability: freeIntervals(resource, models.Interval{Start: start, End: end}, occupied),
	}, nil
}

// derivedStatus reflects the invariant that status follows active
// bookings; only maintenance and out_of_office are authoritative.
func (s *DefaultSchedulingService) derivedStatus(resource *models.Resource, occupied []models.Interval) models.ResourceStatus {
	if resource.Unavailable() {
		return resource.Status
	}
	now := s.now()
	for _, iv := range occupied {
		if iv.Contains(now) {
			return models.ResourceStatusBusy
		}
	}
	return models.ResourceStatusAvailable
}

// BookAppointment commits a client-facing appointment against a
// lawyer-resource under the same atomic conflict check as a booking,
// and assigns a unique confirmation code.
func (s *DefaultSchedulingService) BookAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	if req.ClientName == "" || req.Email == "" {
		return nil, utils.NewValidationError("client name and email are required")
	}
	slot := models.Slot{Start: req.Start, End: req.End}
	if err := ValidateSlot(s.now(), slot, s.Config.WorkingHours, s.Config.MaxAdvanceDays); err != nil {
		return nil, err
	}

	lawyer, err := s.Resources.GetByID(ctx, req.LawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer.Type != models.ResourceTypeLawyer {
		return nil, utils.NewValidationError("resource %s is a %s, not a lawyer", req.LawyerID, lawyer.Type)
	}

	release, err := s.Locker.Lock(ctx, req.LawyerID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.CheckScheduleConflict(ctx, lawyer, req.Start, req.End); err != nil {
		return nil, err
	}

	status := models.AppointmentStatusPending
	if req.Confirmed {
		status = models.AppointmentStatusConfirmed
	}
	appt := &models.Appointment{
		ID:               uuid.New().String(),
		ClientName:       req.ClientName,
		Email:            req.Email,
		Phone:            req.Phone,
		ServiceID:        req.ServiceID,
		LawyerID:         req.LawyerID,
		Date:             req.Start.Format("2006-01-02"),
		Start:            req.Start,
		End:              req.End,
		Status:           status,
		ConfirmationCode: newConfirmationCode(),
		CreatedAt:        s.now(),
	}
	if err := s.Occupancy.CreateAppointment(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// ScheduleHearing records a court hearing occupying the lawyer's time.
// Hearings are not bounded by the booking horizon, only by the
// lawyer's existing commitments.
func (s *DefaultSchedulingService) ScheduleHearing(ctx context.Context, caseID, lawyerID string, start, end time.Time) (*models.Hearing, error) {
	if caseID == "" {
		return nil, utils.NewValidationError("case id is required")
	}
	if !end.After(start) {
		return nil, utils.NewValidationError("hearing end must be after start")
	}

	lawyer, err := s.Resources.GetByID(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	if lawyer.Type != models.ResourceTypeLawyer {
		return nil, utils.NewValidationError("resource %s is a %s, not a lawyer", lawyerID, lawyer.Type)
	}

	release, err := s.Locker.Lock(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.CheckScheduleConflict(ctx, lawyer, start, end); err != nil {
		return nil, err
	}

	hearing := &models.Hearing{
		ID:        uuid.New().String(),
		CaseID:    caseID,
		LawyerID:  lawyerID,
		Date:      start.Format("2006-01-02"),
		Start:     start,
		End:       end,
		Status:    models.HearingStatusScheduled,
		CreatedAt: s.now(),
	}
	if err := s.Occupancy.CreateHearing(ctx, hearing); err != nil {
		return nil, err
	}
	return hearing, nil
}

// armReminders arms the booking's reminders. A reminder failure does
// not fail the committed booking.
func (s *DefaultSchedulingService) armReminders(ctx context.Context, booking models.Booking) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.ScheduleReminders(ctx, booking); err != nil {
		utils.GetLogger().Warn("failed to schedule reminders for booking",
			zap.String("bookingID", booking.ID), zap.Error(err))
	}
}

// freeIntervals expands the resource's weekly windows over the range
// and subtracts every occupied interval. A resource with no windows is
// treated as available around the clock.
func freeIntervals(resource *models.Resource, bounds models.Interval, occupied []models.Interval) []models.Interval {
	var windows []models.Interval
	if len(resource.Availability) == 0 {
		windows = []models.Interval{bounds}
	} else {
		dayStart := time.Date(bounds.Start.Year(), bounds.Start.Month(), bounds.Start.Day(), 0, 0, 0, 0, bounds.Start.Location())
		for d := dayStart; d.Before(bounds.End); d = d.AddDate(0, 0, 1) {
			for _, w := range resource.WindowsOn(d.Weekday()) {
				iv := models.Interval{
					Start: d.Add(time.Duration(w.StartMinute) * time.Minute),
					End:   d.Add(time.Duration(w.EndMinute) * time.Minute),
				}
				if clipped, ok := iv.Clip(bounds); ok {
					windows = append(windows, clipped)
				}
			}
		}
	}

	free := windows
	for _, occ := range occupied {
		var next []models.Interval
		for _, w := range free {
			if !w.Overlaps(occ) {
				next = append(next, w)
				continue
			}
			if occ.Start.After(w.Start) {
				next = append(next, models.Interval{Start: w.Start, End: occ.Start})
			}
			if occ.End.Before(w.End) {
				next = append(next, models.Interval{Start: occ.End, End: w.End})
			}
		}
		free = next
	}
	return free
}

func newConfirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
