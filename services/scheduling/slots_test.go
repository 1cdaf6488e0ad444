package scheduling

import (
	"testing"
	"time"

	"caseflow/models"
	"caseflow/utils"
)

func TestGenerateDaySlots_WithBuffer(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	wh := models.WorkingHours{StartHour: 9, EndHour: 17}

	slots := GenerateDaySlots(day, wh, 60*time.Minute, 15*time.Minute)

	wantStarts := []string{"09:00", "10:15", "11:30", "12:45", "14:00", "15:15"}
	if len(slots) != len(wantStarts) {
		t.Fatalf("expected %d slots, got %d", len(wantStarts), len(slots))
	}
	for i, want := range wantStarts {
		if got := slots[i].Start.Format("15:04"); got != want {
			t.Errorf("slot %d: expected start %s, got %s", i, want, got)
		}
	}
	dayEnd := time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC)
	for i, slot := range slots {
		if slot.End.After(dayEnd) {
			t.Errorf("slot %d ends after working hours: %s", i, slot.End.Format("15:04"))
		}
	}
}

func TestGenerateDaySlots_ZeroBuffer(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	wh := models.WorkingHours{StartHour: 9, EndHour: 17}

	slots := GenerateDaySlots(day, wh, 60*time.Minute, 0)
	if len(slots) != 8 {
		t.Fatalf("expected 8 candidate slots, got %d", len(slots))
	}
	if got := slots[7].End.Format("15:04"); got != "17:00" {
		t.Errorf("expected last slot to end at 17:00, got %s", got)
	}
}

func TestGenerateDaySlots_NoPartialTrailingSlot(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	wh := models.WorkingHours{StartHour: 9, EndHour: 12}

	// 90m slots: 09:00-10:30 fits, 10:30-12:00 fits, 12:00-13:30 does not.
	slots := GenerateDaySlots(day, wh, 90*time.Minute, 0)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
}

func TestGenerateDaySlots_DegenerateInputs(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		wh       models.WorkingHours
		duration time.Duration
		buffer   time.Duration
	}{
		{"zero duration", models.WorkingHours{StartHour: 9, EndHour: 17}, 0, 0},
		{"negative buffer", models.WorkingHours{StartHour: 9, EndHour: 17}, time.Hour, -time.Minute},
		{"inverted hours", models.WorkingHours{StartHour: 17, EndHour: 9}, time.Hour, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if slots := GenerateDaySlots(day, tc.wh, tc.duration, tc.buffer); slots != nil {
				t.Errorf("expected no slots, got %d", len(slots))
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{"today", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), false},
		{"yesterday", time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), true},
		{"horizon edge", time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), false},
		{"beyond horizon", time.Date(2024, 7, 11, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDate(now, tc.date, 30)
			if tc.wantErr {
				if !utils.IsValidation(err) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateSlot_OutsideWorkingHours(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	wh := models.WorkingHours{StartHour: 9, EndHour: 17}

	early := models.Slot{
		Start: time.Date(2024, 6, 11, 7, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC),
	}
	if err := ValidateSlot(now, early, wh, 30); !utils.IsValidation(err) {
		t.Errorf("expected ValidationError for slot before opening, got %v", err)
	}

	late := models.Slot{
		Start: time.Date(2024, 6, 11, 16, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 11, 17, 30, 0, 0, time.UTC),
	}
	if err := ValidateSlot(now, late, wh, 30); !utils.IsValidation(err) {
		t.Errorf("expected ValidationError for slot past closing, got %v", err)
	}

	inverted := models.Slot{
		Start: time.Date(2024, 6, 11, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
	}
	if err := ValidateSlot(now, inverted, wh, 30); !utils.IsValidation(err) {
		t.Errorf("expected ValidationError for inverted slot, got %v", err)
	}

	ok := models.Slot{
		Start: time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC),
	}
	if err := ValidateSlot(now, ok, wh, 30); err != nil {
		t.Errorf("unexpected error for valid slot: %v", err)
	}
}
