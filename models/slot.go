package models

import "time"

// WorkingHours is the daily window during which slots are generated,
// supplied by the configuration collaborator.
type WorkingHours struct {
	StartHour int `mapstructure:"start_hour" json:"startHour"`
	EndHour   int `mapstructure:"end_hour" json:"endHour"`
}

// Slot is a candidate, not-yet-committed interval a caller might book.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Interval returns the slot's range for overlap checks.
func (s Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// ResourceSchedule is the read-only view returned by GetResourceSchedule:
// the resource with its derived status, the bookings inside the
// requested range, and the free availability remaining around them.
type ResourceSchedule struct {
	Resource     Resource   `json:"resource"`
	Bookings     []Booking  `json:"bookings"`
	Availability []Interval `json:"availability"`
}
