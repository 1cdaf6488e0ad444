package scheduling

import (
	"time"

	"caseflow/models"
	"caseflow/utils"
)

// GenerateDaySlots produces the ordered candidate slots for a date.
// Generation starts at date@startHour, advances by slotDuration plus
// bufferTime each step, and stops once a slot's end would pass endHour
// (no partial trailing slot). Pure, deterministic, no I/O.
func GenerateDaySlots(date time.Time, wh models.WorkingHours, slotDuration, bufferTime time.Duration) []models.Slot {
	if slotDuration <= 0 || bufferTime < 0 || wh.EndHour <= wh.StartHour {
		return nil
	}
	year, month, day := date.Date()
	dayStart := time.Date(year, month, day, wh.StartHour, 0, 0, 0, date.Location())
	dayEnd := time.Date(year, month, day, wh.EndHour, 0, 0, 0, date.Location())

	var slots []models.Slot
	for start := dayStart; ; start = start.Add(slotDuration + bufferTime) {
		end := start.Add(slotDuration)
		if end.After(dayEnd) {
			break
		}
		slots = append(slots, models.Slot{Start: start, End: end})
	}
	return slots
}

// ValidateDate fails unless the date falls between the start of today
// and maxAdvanceDays from today.
func ValidateDate(now, date time.Time, maxAdvanceDays int) error {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(startOfToday) {
		return utils.NewValidationError("date %s is in the past", date.Format("2006-01-02"))
	}
	horizon := startOfToday.AddDate(0, 0, maxAdvanceDays+1)
	if !date.Before(horizon) {
		return utils.NewValidationError("date %s is beyond the %d-day booking horizon", date.Format("2006-01-02"), maxAdvanceDays)
	}
	return nil
}

// ValidateSlot checks the slot's date against the booking horizon and
// its hours against the working-hours window.
func ValidateSlot(now time.Time, slot models.Slot, wh models.WorkingHours, maxAdvanceDays int) error {
	if !slot.End.After(slot.Start) {
		return utils.NewValidationError("slot end %s is not after start %s", slot.End.Format(time.RFC3339), slot.Start.Format(time.RFC3339))
	}
	if err := ValidateDate(now, slot.Start, maxAdvanceDays); err != nil {
		return err
	}
	year, month, day := slot.Start.Date()
	workStart := time.Date(year, month, day, wh.StartHour, 0, 0, 0, slot.Start.Location())
	workEnd := time.Date(year, month, day, wh.EndHour, 0, 0, 0, slot.Start.Location())
	if slot.Start.Before(workStart) || slot.End.After(workEnd) {
		return utils.NewValidationError("slot %s-%s falls outside working hours %02d:00-%02d:00",
			slot.Start.Format("15:04"), slot.End.Format("15:04"), wh.StartHour, wh.EndHour)
	}
	return nil
}
