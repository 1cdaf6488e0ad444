package models

import "time"

// ResourceType classifies what kind of capacity a resource represents.
type ResourceType string

const (
	ResourceTypeLawyer    ResourceType = "lawyer"
	ResourceTypeRoom      ResourceType = "room"
	ResourceTypeEquipment ResourceType = "equipment"
)

// ResourceStatus is the resource's current state. Only maintenance and
// out_of_office are stored authoritatively; busy and available are
// derived from occupancy at read time.
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusBusy        ResourceStatus = "busy"
	ResourceStatusOutOfOffice ResourceStatus = "out_of_office"
	ResourceStatusMaintenance ResourceStatus = "maintenance"
	ResourceStatusReserved    ResourceStatus = "reserved"
)

// AvailabilityWindow is a recurring weekly window in which the
// resource accepts bookings, expressed in minutes from midnight.
type AvailabilityWindow struct {
	Day         time.Weekday `bson:"day" json:"day"`
	StartMinute int          `bson:"start_minute" json:"start_minute"`
	EndMinute   int          `bson:"end_minute" json:"end_minute"`
}

// Resource is a bookable unit of capacity. A resource with no
// availability windows is bookable at any time within working hours.
type Resource struct {
	ID           string               `bson:"id" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Type         ResourceType         `bson:"type" json:"type"`
	Capacity     int                  `bson:"capacity" json:"capacity"`
	Tags         []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Availability []AvailabilityWindow `bson:"availability,omitempty" json:"availability,omitempty"`
	Status       ResourceStatus       `bson:"status" json:"status"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
}

// Unavailable reports whether the resource is withdrawn from booking
// entirely, regardless of its schedule.
func (r *Resource) Unavailable() bool {
	return r.Status == ResourceStatusMaintenance || r.Status == ResourceStatusOutOfOffice
}

// WindowsOn returns the availability windows configured for the given
// weekday.
func (r *Resource) WindowsOn(day time.Weekday) []AvailabilityWindow {
	var out []AvailabilityWindow
	for _, w := range r.Availability {
		if w.Day == day {
			out = append(out, w)
		}
	}
	return out
}

// CoversInterval reports whether a single availability window fully
// contains [start, end). Intervals spanning midnight are never
// covered.
func (r *Resource) CoversInterval(start, end time.Time) bool {
	if start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		if !end.Equal(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()).AddDate(0, 0, 1)) {
			return false
		}
	}
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if endMin == 0 && end.After(start) {
		endMin = 24 * 60
	}
	for _, w := range r.WindowsOn(start.Weekday()) {
		if startMin >= w.StartMinute && endMin <= w.EndMinute {
			return true
		}
	}
	return false
}
