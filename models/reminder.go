package models

import "time"

// ReminderJob is a persisted, addressable reminder tied to a booking.
// Durable due-times live here and in the delayed task queue, so pending
// reminders survive a process restart.
type ReminderJob struct {
	ID          string     `bson:"id" json:"id"`
	BookingID   string     `bson:"booking_id" json:"booking_id"`
	Recipient   string     `bson:"recipient" json:"recipient"`
	Message     string     `bson:"message" json:"message"`
	FireAt      time.Time  `bson:"fire_at" json:"fire_at"`
	Delivered   bool       `bson:"delivered" json:"delivered"`
	Cancelled   bool       `bson:"cancelled" json:"cancelled"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
}

// ReminderPayload is the wire payload carried by a queued reminder task.
type ReminderPayload struct {
	ReminderID string    `json:"reminderId"`
	BookingID  string    `json:"bookingId"`
	Recipient  string    `json:"recipient"`
	Message    string    `json:"message"`
	FireAt     time.Time `json:"fireAt"`
}
