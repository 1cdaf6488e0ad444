package models

import "time"

// AppointmentStatus mirrors BookingStatus for client-facing appointments.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Occupies reports whether the appointment blocks its lawyer's interval.
func (s AppointmentStatus) Occupies() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// Appointment is a client-facing booking of a service against a lawyer.
// For conflict purposes it occupies the lawyer-resource exactly like a
// Booking does.
type Appointment struct {
	ID               string            `bson:"id" json:"id"`
	ClientName       string            `bson:"client_name" json:"client_name"`
	Email            string            `bson:"email" json:"email"`
	Phone            string            `bson:"phone,omitempty" json:"phone,omitempty"`
	ServiceID        string            `bson:"service_id" json:"service_id"`
	LawyerID         string            `bson:"lawyer_id" json:"lawyer_id"`
	Date             string            `bson:"date" json:"date"` // "2006-01-02"
	Start            time.Time         `bson:"start" json:"start"`
	End              time.Time         `bson:"end" json:"end"`
	Status           AppointmentStatus `bson:"status" json:"status"`
	ConfirmationCode string            `bson:"confirmation_code" json:"confirmation_code"`
	CreatedAt        time.Time         `bson:"created_at" json:"created_at"`
}

// Interval returns the appointment's occupied time range.
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.Start, End: a.End}
}

// AppointmentRequest is the validated input for booking an appointment.
type AppointmentRequest struct {
	ClientName string    `json:"client_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	ServiceID  string    `json:"service_id"`
	LawyerID   string    `json:"lawyer_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Confirmed  bool      `json:"confirmed"` // trusted callers create directly confirmed
}
