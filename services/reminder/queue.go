package reminder

import (
	"context"
	"encoding/json"
	"fmt"

	"caseflow/models"

	"github.com/hibiken/asynq"
)

// TypeReminderSend is the task type the reminder worker consumes.
const TypeReminderSend = "reminder:send"

// TaskQueue schedules a reminder job for delivery at its fire time.
type TaskQueue interface {
	Enqueue(ctx context.Context, job models.ReminderJob) error
}

// AsynqQueue is the production queue: delayed tasks backed by Redis,
// so armed reminders survive a process restart.
type AsynqQueue struct {
	Client *asynq.Client
}

// NewReminderTask builds the queue task for a job.
func NewReminderTask(job models.ReminderJob) (*asynq.Task, []asynq.Option, error) {
	payload := models.ReminderPayload{
		ReminderID: job.ID,
		BookingID:  job.BookingID,
		Recipient:  job.Recipient,
		Message:    job.Message,
		FireAt:     job.FireAt,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	opts := []asynq.Option{
		asynq.ProcessAt(job.FireAt),
		asynq.TaskID(job.ID),
	}
	return task, opts, nil
}

func (q *AsynqQueue) Enqueue(ctx context.Context, job models.ReminderJob) error {
	task, opts, err := NewReminderTask(job)
	if err != nil {
		return fmt.Errorf("building reminder task %s: %w", job.ID, err)
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueueing reminder task %s: %w", job.ID, err)
	}
	return nil
}
