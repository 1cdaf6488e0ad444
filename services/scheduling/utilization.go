package scheduling

import (
	"context"
	"time"

	bookingRepo "caseflow/database/repository/booking"
	resourceRepo "caseflow/database/repository/resource"
	"caseflow/models"
	"caseflow/utils"
)

// UtilizationAnalyzer aggregates completed bookings into utilization
// metrics.
type UtilizationAnalyzer interface {
	CalculateUtilization(ctx context.Context, resourceID string, start, end time.Time) (float64, error)
}

// DefaultUtilizationAnalyzer is the production implementation.
type DefaultUtilizationAnalyzer struct {
	Resources resourceRepo.ResourceRepository
	Bookings  bookingRepo.BookingRepository
}

// CalculateUtilization returns the percentage of the resource's
// working time within [start, end) consumed by completed bookings.
// When the resource has no working time configured in the range the
// result is 0 rather than a division by zero.
func (a *DefaultUtilizationAnalyzer) CalculateUtilization(ctx context.Context, resourceID string, start, end time.Time) (float64, error) {
	if !end.After(start) {
		return 0, utils.NewValidationError("utilization range end must be after start")
	}
	resource, err := a.Resources.GetByID(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	bounds := models.Interval{Start: start, End: end}
	working := workingDuration(resource, bounds)
	if working == 0 {
		return 0, nil
	}

	completed, err := a.Bookings.FindCompletedInRange(ctx, resourceID, start, end)
	if err != nil {
		return 0, err
	}
	var booked time.Duration
	for i := range completed {
		if clipped, ok := completed[i].Interval().Clip(bounds); ok {
			booked += clipped.Duration()
		}
	}
	return booked.Minutes() / working.Minutes() * 100, nil
}

// workingDuration sums the resource's weekly availability windows over
// the bounded range.
func workingDuration(resource *models.Resource, bounds models.Interval) time.Duration {
	var total time.Duration
	dayStart := time.Date(bounds.Start.Year(), bounds.Start.Month(), bounds.Start.Day(), 0, 0, 0, 0, bounds.Start.Location())
	for d := dayStart; d.Before(bounds.End); d = d.AddDate(0, 0, 1) {
		for _, w := range resource.WindowsOn(d.Weekday()) {
			iv := models.Interval{
				Start: d.Add(time.Duration(w.StartMinute) * time.Minute),
				End:   d.Add(time.Duration(w.EndMinute) * time.Minute),
			}
			if clipped, ok := iv.Clip(bounds); ok {
				total += clipped.Duration()
			}
		}
	}
	return total
}
