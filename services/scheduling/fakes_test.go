package scheduling

import (
	"context"
	"sync"
	"time"

	"caseflow/models"
	"caseflow/utils"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fakeResourceRepo struct {
	mu        sync.Mutex
	resources map[string]models.Resource
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{resources: make(map[string]models.Resource)}
}

func (r *fakeResourceRepo) Create(_ context.Context, resource *models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[resource.ID] = *resource
	return nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id string) (*models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, utils.NewNotFoundError("resource %s not found", id)
	}
	out := res
	return &out, nil
}

func (r *fakeResourceRepo) List(_ context.Context) ([]models.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resource
	for _, res := range r.resources {
		out = append(out, res)
	}
	return out, nil
}

func (r *fakeResourceRepo) UpdateStatus(_ context.Context, id string, status models.ResourceStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[id]
	if !ok {
		return utils.NewNotFoundError("resource %s not found", id)
	}
	res.Status = status
	r.resources[id] = res
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("booking %s not found", id)
	}
	out := b
	return &out, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requested := models.Interval{Start: start, End: end}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Status.Occupies() && b.Interval().Overlaps(requested) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByResourceInRange(_ context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requested := models.Interval{Start: start, End: end}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Interval().Overlaps(requested) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindCompletedInRange(_ context.Context, resourceID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requested := models.Interval{Start: start, End: end}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Status == models.BookingStatusCompleted && b.Interval().Overlaps(requested) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindElapsedConfirmed(_ context.Context, before time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingStatusConfirmed && !b.End.After(before) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return utils.NewNotFoundError("booking %s not found", booking.ID)
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, b := range r.bookings {
		terminal := b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusCompleted
		if terminal && b.End.Before(cutoff) {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

type fakeOccupancyRepo struct {
	mu       sync.Mutex
	appts    map[string]models.Appointment
	hearings map[string]models.Hearing
}

func newFakeOccupancyRepo() *fakeOccupancyRepo {
	return &fakeOccupancyRepo{
		appts:    make(map[string]models.Appointment),
		hearings: make(map[string]models.Hearing),
	}
}

func (r *fakeOccupancyRepo) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts[appt.ID] = *appt
	return nil
}

func (r *fakeOccupancyRepo) GetAppointmentByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, utils.NewNotFoundError("appointment %s not found", id)
	}
	out := a
	return &out, nil
}

func (r *fakeOccupancyRepo) FindAppointmentsOverlapping(_ context.Context, lawyerID string, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requested := models.Interval{Start: start, End: end}
	var out []models.Appointment
	for _, a := range r.appts {
		if a.LawyerID == lawyerID && a.Status.Occupies() && a.Interval().Overlaps(requested) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeOccupancyRepo) UpdateAppointment(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[appt.ID]; !ok {
		return utils.NewNotFoundError("appointment %s not found", appt.ID)
	}
	r.appts[appt.ID] = *appt
	return nil
}

func (r *fakeOccupancyRepo) CreateHearing(_ context.Context, hearing *models.Hearing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hearings[hearing.ID] = *hearing
	return nil
}

func (r *fakeOccupancyRepo) FindHearingsOverlapping(_ context.Context, lawyerID string, start, end time.Time) ([]models.Hearing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requested := models.Interval{Start: start, End: end}
	var out []models.Hearing
	for _, h := range r.hearings {
		if h.LawyerID == lawyerID && h.Status.Occupies() && h.Interval().Overlaps(requested) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeOccupancyRepo) DeleteAppointmentsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.appts {
		terminal := a.Status == models.AppointmentStatusCancelled || a.Status == models.AppointmentStatusCompleted
		if terminal && a.End.Before(cutoff) {
			delete(r.appts, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeOccupancyRepo) DeleteHearingsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, h := range r.hearings {
		if h.Status != models.HearingStatusScheduled && h.End.Before(cutoff) {
			delete(r.hearings, id)
			n++
		}
	}
	return n, nil
}

type fakeReminderRepo struct {
	mu   sync.Mutex
	jobs map[string]models.ReminderJob
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{jobs: make(map[string]models.ReminderJob)}
}

func (r *fakeReminderRepo) CreateJobs(_ context.Context, jobs []models.ReminderJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return nil
}

func (r *fakeReminderRepo) GetJob(_ context.Context, id string) (*models.ReminderJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, utils.NewNotFoundError("reminder %s not found", id)
	}
	out := j
	return &out, nil
}

func (r *fakeReminderRepo) CancelByBooking(_ context.Context, bookingID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, j := range r.jobs {
		if j.BookingID == bookingID && !j.Delivered && !j.Cancelled {
			j.Cancelled = true
			r.jobs[id] = j
			n++
		}
	}
	return n, nil
}

func (r *fakeReminderRepo) MarkDelivered(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return utils.NewNotFoundError("reminder %s not found", id)
	}
	j.Delivered = true
	j.DeliveredAt = &at
	r.jobs[id] = j
	return nil
}

func (r *fakeReminderRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, j := range r.jobs {
		if j.FireAt.Before(cutoff) {
			delete(r.jobs, id)
			n++
		}
	}
	return n, nil
}

type fakeArmer struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
}

func (a *fakeArmer) ScheduleReminders(_ context.Context, booking models.Booking) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scheduled = append(a.scheduled, booking.ID)
	return nil
}

func (a *fakeArmer) CancelRemindersFor(_ context.Context, bookingID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelled = append(a.cancelled, bookingID)
	return nil
}

type testEnv struct {
	svc       *DefaultSchedulingService
	resources *fakeResourceRepo
	bookings  *fakeBookingRepo
	occupancy *fakeOccupancyRepo
	armer     *fakeArmer
	clock     *fakeClock
}

// newTestEnv builds the engine around in-memory collaborators with
// working hours 09:00-17:00 and the clock parked at 08:00 on the
// given day.
func newTestEnv(day time.Time, slotDuration, buffer time.Duration) *testEnv {
	clock := &fakeClock{t: time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, time.UTC)}
	env := &testEnv{
		resources: newFakeResourceRepo(),
		bookings:  newFakeBookingRepo(),
		occupancy: newFakeOccupancyRepo(),
		armer:     &fakeArmer{},
		clock:     clock,
	}
	env.svc = &DefaultSchedulingService{
		Resources: env.resources,
		Bookings:  env.bookings,
		Occupancy: env.occupancy,
		Reminders: env.armer,
		Locker:    NewKeyedMutexLocker(),
		Clock:     clock,
		Config: Config{
			WorkingHours:   models.WorkingHours{StartHour: 9, EndHour: 17},
			SlotDuration:   slotDuration,
			BufferTime:     buffer,
			MaxAdvanceDays: 30,
		},
	}
	return env
}

// fullWeekWindows gives a resource availability every day 09:00-17:00.
func fullWeekWindows() []models.AvailabilityWindow {
	var windows []models.AvailabilityWindow
	for d := time.Sunday; d <= time.Saturday; d++ {
		windows = append(windows, models.AvailabilityWindow{Day: d, StartMinute: 9 * 60, EndMinute: 17 * 60})
	}
	return windows
}

func (e *testEnv) addResource(id string, typ models.ResourceType, windows []models.AvailabilityWindow) {
	e.resources.resources[id] = models.Resource{
		ID:           id,
		Name:         id,
		Type:         typ,
		Capacity:     1,
		Availability: windows,
		Status:       models.ResourceStatusAvailable,
	}
}
