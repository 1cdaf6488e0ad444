package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"caseflow/models"
	"caseflow/services/reminder"
	"caseflow/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type memReminderRepo struct {
	jobs map[string]models.ReminderJob
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{jobs: make(map[string]models.ReminderJob)}
}

func (r *memReminderRepo) CreateJobs(_ context.Context, jobs []models.ReminderJob) error {
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return nil
}

func (r *memReminderRepo) GetJob(_ context.Context, id string) (*models.ReminderJob, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, utils.NewNotFoundError("reminder %s not found", id)
	}
	return &j, nil
}

func (r *memReminderRepo) CancelByBooking(_ context.Context, bookingID string) (int64, error) {
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

func (r *memReminderRepo) MarkDelivered(_ context.Context, id string, at time.Time) error {
	j, ok := r.jobs[id]
	if !ok {
		return utils.NewNotFoundError("reminder %s not found", id)
	}
	j.Delivered = true
	j.DeliveredAt = &at
	r.jobs[id] = j
	return nil
}

func (r *memReminderRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, j := range r.jobs {
		if j.FireAt.Before(cutoff) {
			delete(r.jobs, id)
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	recipients []string
	err        error
}

func (n *recordingNotifier) Notify(_ context.Context, recipient, _ string, _ time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.recipients = append(n.recipients, recipient)
	return nil
}

func reminderTask(t *testing.T, job models.ReminderJob) *asynq.Task {
	t.Helper()
	task, _, err := reminder.NewReminderTask(job)
	if err != nil {
		t.Fatalf("task build failed: %v", err)
	}
	return task
}

func newHandler(repo *memReminderRepo, notifier *recordingNotifier) asynq.HandlerFunc {
	return handleReminderTask(repo, notifier, rate.NewLimiter(rate.Inf, 1), zap.NewNop())
}

func TestHandleReminderTask_DeliversActiveJob(t *testing.T) {
	repo := newMemReminderRepo()
	job := models.ReminderJob{
		ID: "job-1", BookingID: "booking-1",
		Recipient: "alice", Message: "starts soon",
		FireAt: time.Now().Add(time.Hour),
	}
	repo.jobs[job.ID] = job
	notifier := &recordingNotifier{}

	if err := newHandler(repo, notifier)(context.Background(), reminderTask(t, job)); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(notifier.recipients) != 1 || notifier.recipients[0] != "alice" {
		t.Fatalf("expected one delivery to alice, got %v", notifier.recipients)
	}
	stored := repo.jobs[job.ID]
	if !stored.Delivered || stored.DeliveredAt == nil {
		t.Fatalf("job not marked delivered: %+v", stored)
	}
}

func TestHandleReminderTask_SuppressesCancelled(t *testing.T) {
	repo := newMemReminderRepo()
	job := models.ReminderJob{ID: "job-1", BookingID: "booking-1", Recipient: "alice", Cancelled: true}
	repo.jobs[job.ID] = job
	notifier := &recordingNotifier{}

	if err := newHandler(repo, notifier)(context.Background(), reminderTask(t, job)); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(notifier.recipients) != 0 {
		t.Fatal("cancelled reminder must not be dispatched")
	}
	if repo.jobs[job.ID].Delivered {
		t.Fatal("suppressed reminder must not be marked delivered")
	}
}

func TestHandleReminderTask_DeliveredIsNoOp(t *testing.T) {
	repo := newMemReminderRepo()
	at := time.Now()
	job := models.ReminderJob{ID: "job-1", Recipient: "alice", Delivered: true, DeliveredAt: &at}
	repo.jobs[job.ID] = job
	notifier := &recordingNotifier{}

	if err := newHandler(repo, notifier)(context.Background(), reminderTask(t, job)); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(notifier.recipients) != 0 {
		t.Fatal("already-delivered reminder must not be dispatched again")
	}
}

func TestHandleReminderTask_MissingJobConsumed(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &recordingNotifier{}
	job := models.ReminderJob{ID: "purged", Recipient: "alice"}

	// A purged job must not error, or asynq would retry forever.
	if err := newHandler(repo, notifier)(context.Background(), reminderTask(t, job)); err != nil {
		t.Fatalf("expected nil for a purged job, got %v", err)
	}
	if len(notifier.recipients) != 0 {
		t.Fatal("nothing to deliver for a purged job")
	}
}

func TestHandleReminderTask_NotifierFailureRetries(t *testing.T) {
	repo := newMemReminderRepo()
	job := models.ReminderJob{ID: "job-1", Recipient: "alice"}
	repo.jobs[job.ID] = job
	notifier := &recordingNotifier{err: errors.New("smtp down")}

	if err := newHandler(repo, notifier)(context.Background(), reminderTask(t, job)); err == nil {
		t.Fatal("a failed dispatch must surface so asynq retries it")
	}
	if repo.jobs[job.ID].Delivered {
		t.Fatal("failed dispatch must not be marked delivered")
	}
}

func TestHandleReminderTask_InvalidPayload(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &recordingNotifier{}
	task := asynq.NewTask(reminder.TypeReminderSend, []byte("not json"))

	if err := newHandler(repo, notifier)(context.Background(), task); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}
