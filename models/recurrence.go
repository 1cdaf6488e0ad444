package models

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Frequency enumerates the supported recurrence cadences.
type Frequency string

const (
	// FrequencyDaily fires once per day at Hour:Minute.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly fires once per week on Weekday at Hour:Minute.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyInterval fires every Every duration.
	FrequencyInterval Frequency = "interval"
	// FrequencyCron fires per a standard cron expression.
	FrequencyCron Frequency = "cron"
)

// RecurrenceRule describes how to compute the next occurrence of a
// periodic task. NextAfter is the single computation point for "next
// occurrence strictly after now" across the engine.
type RecurrenceRule struct {
	Frequency Frequency     `bson:"frequency" json:"frequency"`
	Hour      int           `bson:"hour" json:"hour"`
	Minute    int           `bson:"minute" json:"minute"`
	Weekday   time.Weekday  `bson:"weekday" json:"weekday"`
	Every     time.Duration `bson:"every,omitempty" json:"every,omitempty"`
	CronExpr  string        `bson:"cron_expr,omitempty" json:"cron_expr,omitempty"`
}

// NextAfter returns the first occurrence of the rule strictly after now.
func (r RecurrenceRule) NextAfter(now time.Time) (time.Time, error) {
	switch r.Frequency {
	case FrequencyDaily:
		if err := r.validateTimeOfDay(); err != nil {
			return time.Time{}, err
		}
		next := time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case FrequencyWeekly:
		if err := r.validateTimeOfDay(); err != nil {
			return time.Time{}, err
		}
		next := time.Date(now.Year(), now.Month(), now.Day(), r.Hour, r.Minute, 0, 0, now.Location())
		offset := (int(r.Weekday) - int(next.Weekday()) + 7) % 7
		next = next.AddDate(0, 0, offset)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil

	case FrequencyInterval:
		if r.Every <= 0 {
			return time.Time{}, fmt.Errorf("recurrence rule: interval frequency requires a positive Every, got %s", r.Every)
		}
		return now.Add(r.Every), nil

	case FrequencyCron:
		sched, err := cron.ParseStandard(r.CronExpr)
		if err != nil {
			return time.Time{}, fmt.Errorf("recurrence rule: invalid cron expression %q: %w", r.CronExpr, err)
		}
		return sched.Next(now), nil

	default:
		return time.Time{}, fmt.Errorf("recurrence rule: unsupported frequency %q", r.Frequency)
	}
}

func (r RecurrenceRule) validateTimeOfDay() error {
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("recurrence rule: invalid time of day %02d:%02d", r.Hour, r.Minute)
	}
	return nil
}
