package cron

import (
	"context"
	"encoding/json"
	"time"

	"caseflow/config"
	reminderRepo "caseflow/database/repository/reminder"
	"caseflow/models"
	"caseflow/services/notification"
	"caseflow/services/reminder"
	"caseflow/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ReminderWorker consumes due reminder tasks and dispatches them
// through the notifier.
type ReminderWorker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	logger  *zap.Logger
	monitor context.CancelFunc
}

// NewReminderWorker builds the worker over the configured Redis queue.
func NewReminderWorker(repo reminderRepo.ReminderRepository, notifier notification.Notifier, logger *zap.Logger) *ReminderWorker {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: config.AppConfig.WorkerConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	limiter := rate.NewLimiter(rate.Limit(config.AppConfig.NotifyRatePerSec), 1)
	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TypeReminderSend, handleReminderTask(repo, notifier, limiter, logger))

	return &ReminderWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with
// backoff like any other transient Redis hiccup.
func (w *ReminderWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.monitor = cancel
	go monitorRedisConnection(ctx, w.logger)

	go func() {
		w.logger.Info("starting reminder worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := w.srv.Run(w.mux); err != nil {
				w.logger.Error("reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					w.logger.Fatal("reminder worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// Shutdown stops the worker, waiting for in-flight dispatches.
func (w *ReminderWorker) Shutdown() {
	if w.monitor != nil {
		w.monitor()
	}
	w.srv.Shutdown()
}

// handleReminderTask dispatches one due reminder. The cancelled flag
// is read exactly once, immediately before dispatch: a cancellation
// observed here suppresses the reminder; a cancellation arriving after
// this read does not abort the in-flight dispatch.
func handleReminderTask(repo reminderRepo.ReminderRepository, notifier notification.Notifier, limiter *rate.Limiter, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder task has invalid payload", zap.Error(err))
			return err
		}

		job, err := repo.GetJob(ctx, p.ReminderID)
		if err != nil {
			if utils.IsNotFound(err) {
				// Job purged by retention; nothing to deliver.
				logger.Warn("reminder job no longer exists", zap.String("reminderID", p.ReminderID))
				return nil
			}
			return err
		}
		if job.Cancelled {
			logger.Info("reminder suppressed by cancellation",
				zap.String("reminderID", job.ID), zap.String("bookingID", job.BookingID))
			return nil
		}
		if job.Delivered {
			return nil
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := notifier.Notify(ctx, job.Recipient, job.Message, job.FireAt); err != nil {
			logger.Error("reminder dispatch failed",
				zap.String("reminderID", job.ID), zap.Error(err))
			return err
		}
		if err := repo.MarkDelivered(ctx, job.ID, time.Now()); err != nil {
			logger.Warn("failed to mark reminder delivered",
				zap.String("reminderID", job.ID), zap.Error(err))
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("reminder queue redis connection lost", zap.Error(err))
			}
		}
	}
}
