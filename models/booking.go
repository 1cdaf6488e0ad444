package models

import "time"

// BookingStatus tracks the lifecycle of a booking record.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Occupies reports whether a booking in this status blocks the
// resource's interval for other bookings.
func (s BookingStatus) Occupies() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is a committed reservation of a resource over [Start, End).
type Booking struct {
	ID           string        `bson:"id" json:"id"`
	ResourceID   string        `bson:"resource_id" json:"resource_id"`
	Start        time.Time     `bson:"start" json:"start"`
	End          time.Time     `bson:"end" json:"end"`
	Purpose      string        `bson:"purpose" json:"purpose"`
	Requester    string        `bson:"requester" json:"requester"`
	Status       BookingStatus `bson:"status" json:"status"`
	CancelReason string        `bson:"cancel_reason,omitempty" json:"cancel_reason,omitempty"`
	Outcome      string        `bson:"outcome,omitempty" json:"outcome,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

// Interval returns the booking's occupied time range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}
