package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"caseflow/models"
	"caseflow/utils"
)

// GetOccupiedIntervals merges every commitment consuming the resource
// inside [start, end) into a sorted interval list. A lawyer-resource is
// consumed by three entity kinds (bookings, client appointments, court
// hearings), so this is a read-only merge across collections rather
// than a single-table query.
func (s *DefaultSchedulingService) GetOccupiedIntervals(ctx context.Context, resourceID string, start, end time.Time) ([]models.Interval, error) {
	return s.occupiedIntervals(ctx, resourceID, start, end, "")
}

func (s *DefaultSchedulingService) occupiedIntervals(ctx context.Context, resourceID string, start, end time.Time, excludeBookingID string) ([]models.Interval, error) {
	bookings, err := s.Bookings.FindOverlapping(ctx, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching overlapping bookings for resource %s: %w", resourceID, err)
	}
	var occupied []models.Interval
	for i := range bookings {
		if bookings[i].ID == excludeBookingID {
			continue
		}
		occupied = append(occupied, bookings[i].Interval())
	}

	appts, err := s.Occupancy.FindAppointmentsOverlapping(ctx, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching overlapping appointments for resource %s: %w", resourceID, err)
	}
	for i := range appts {
		occupied = append(occupied, appts[i].Interval())
	}

	hearings, err := s.Occupancy.FindHearingsOverlapping(ctx, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching overlapping hearings for resource %s: %w", resourceID, err)
	}
	for i := range hearings {
		occupied = append(occupied, hearings[i].Interval())
	}

	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].Start.Before(occupied[j].Start)
	})
	return occupied, nil
}

// GetAvailableSlots generates the day's candidate slots and keeps those
// free of every occupied interval. This read is cheap and cancellable;
// the authoritative conflict check re-runs inside the booking critical
// section at commit time.
func (s *DefaultSchedulingService) GetAvailableSlots(ctx context.Context, resourceID string, date time.Time) ([]models.Slot, error) {
	if err := ValidateDate(s.now(), date, s.Config.MaxAdvanceDays); err != nil {
		return nil, err
	}
	resource, err := s.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource.Unavailable() {
		return []models.Slot{}, nil
	}

	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	occupied, err := s.occupiedIntervals(ctx, resourceID, dayStart, dayEnd, "")
	if err != nil {
		return nil, err
	}

	candidates := GenerateDaySlots(date, s.Config.WorkingHours, s.Config.SlotDuration, s.Config.BufferTime)
	available := make([]models.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if len(resource.Availability) > 0 && !resource.CoversInterval(slot.Start, slot.End) {
			continue
		}
		if overlapsAny(slot.Interval(), occupied) {
			continue
		}
		available = append(available, slot)
	}
	return available, nil
}

// CheckScheduleConflict fails with a ConflictError when [start, end)
// collides with an existing commitment or falls outside the resource's
// own weekly availability windows. A resource may simply not work that
// day or hour, independent of bookings.
func (s *DefaultSchedulingService) CheckScheduleConflict(ctx context.Context, resource *models.Resource, start, end time.Time) error {
	return s.checkConflictExcluding(ctx, resource, start, end, "")
}

func (s *DefaultSchedulingService) checkConflictExcluding(ctx context.Context, resource *models.Resource, start, end time.Time, excludeBookingID string) error {
	if resource.Unavailable() {
		return utils.NewConflictError("resource %s is %s", resource.ID, resource.Status)
	}
	if len(resource.Availability) > 0 && !resource.CoversInterval(start, end) {
		return utils.NewConflictError("resource %s is not available %s-%s on %s",
			resource.ID, start.Format("15:04"), end.Format("15:04"), start.Weekday())
	}
	occupied, err := s.occupiedIntervals(ctx, resource.ID, start, end, excludeBookingID)
	if err != nil {
		return err
	}
	requested := models.Interval{Start: start, End: end}
	if overlapsAny(requested, occupied) {
		return utils.NewConflictError("resource %s already has a commitment overlapping %s-%s",
			resource.ID, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func overlapsAny(iv models.Interval, others []models.Interval) bool {
	for _, other := range others {
		if iv.Overlaps(other) {
			return true
		}
	}
	return false
}
