package models

import "time"

// HearingStatus tracks the lifecycle of a court hearing.
type HearingStatus string

const (
	HearingStatusScheduled HearingStatus = "scheduled"
	HearingStatusCompleted HearingStatus = "completed"
	HearingStatusCancelled HearingStatus = "cancelled"
)

// Occupies reports whether the hearing blocks its lawyer's interval.
func (s HearingStatus) Occupies() bool {
	return s == HearingStatusScheduled
}

// Hearing is a court commitment that occupies a lawyer-resource for
// conflict purposes, the same way a Booking does.
type Hearing struct {
	ID        string        `bson:"id" json:"id"`
	CaseID    string        `bson:"case_id" json:"case_id"`
	LawyerID  string        `bson:"lawyer_id" json:"lawyer_id"`
	Date      string        `bson:"date" json:"date"` // "2006-01-02"
	Start     time.Time     `bson:"start" json:"start"`
	End       time.Time     `bson:"end" json:"end"`
	Status    HearingStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// Interval returns the hearing's occupied time range.
func (h *Hearing) Interval() Interval {
	return Interval{Start: h.Start, End: h.End}
}
