package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseflow/config"
	"caseflow/cron"
	"caseflow/database"
	bookingRepo "caseflow/database/repository/booking"
	occupancyRepo "caseflow/database/repository/occupancy"
	reminderRepo "caseflow/database/repository/reminder"
	resourceRepo "caseflow/database/repository/resource"
	"caseflow/models"
	"caseflow/services/notification"
	"caseflow/services/recurring"
	"caseflow/services/reminder"
	"caseflow/services/scheduling"
	"caseflow/utils"

	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger(config.IsProduction())
	logger := utils.GetLogger()

	database.InitDB()
	db := database.DB()

	// repositories.
	resRepo := resourceRepo.NewMongoResourceRepo(db)
	bookRepo := bookingRepo.NewMongoBookingRepo(db)
	occRepo := occupancyRepo.NewMongoOccupancyRepo(db)
	remRepo := reminderRepo.NewMongoReminderRepo(db)

	// reminder pipeline.
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	reminderScheduler := &reminder.DefaultReminderScheduler{
		Repo:   remRepo,
		Queue:  &reminder.AsynqQueue{Client: queueClient},
		Clock:  utils.SystemClock(),
		Logger: logger,
	}

	// per-resource serialization: in-process by default, Redis lease
	// when the engine runs as multiple processes.
	var locker scheduling.ResourceLocker
	if config.AppConfig.DistributedLocks {
		locker = scheduling.NewRedisLocker(
			utils.GetLockClient(),
			time.Duration(config.AppConfig.LockTTLSeconds)*time.Second,
		)
	} else {
		locker = scheduling.NewKeyedMutexLocker()
	}

	engine := &scheduling.DefaultSchedulingService{
		Resources: resRepo,
		Bookings:  bookRepo,
		Occupancy: occRepo,
		Reminders: reminderScheduler,
		Locker:    locker,
		Clock:     utils.SystemClock(),
		Config:    scheduling.ConfigFromApp(),
	}
	analyzer := &scheduling.DefaultUtilizationAnalyzer{
		Resources: resRepo,
		Bookings:  bookRepo,
	}

	// background maintenance.
	maintenance := &scheduling.MaintenanceRunner{
		Resources: resRepo,
		Bookings:  bookRepo,
		Occupancy: occRepo,
		Reminders: remRepo,
		Analyzer:  analyzer,
		Clock:     utils.SystemClock(),
		Retention: time.Duration(config.AppConfig.RetentionDays) * 24 * time.Hour,
		Logger:    logger,
	}

	tasks := recurring.NewTaskScheduler(utils.SystemClock(), logger)
	mustSchedule(tasks, "purge-expired-records",
		models.RecurrenceRule{Frequency: models.FrequencyDaily, Hour: 3, Minute: 0},
		maintenance.PurgeExpiredRecords)
	mustSchedule(tasks, "complete-elapsed-bookings",
		models.RecurrenceRule{Frequency: models.FrequencyInterval, Every: 15 * time.Minute},
		maintenance.CompleteElapsedBookings)
	mustSchedule(tasks, "utilization-report",
		models.RecurrenceRule{Frequency: models.FrequencyDaily, Hour: 6, Minute: 0},
		maintenance.LogUtilizationReport)
	tasks.Start()

	worker := cron.NewReminderWorker(remRepo, &notification.LogNotifier{Logger: logger}, logger)
	worker.Start()

	logger.Sugar().Infof("main: scheduling engine running (working hours %02d:00-%02d:00, horizon %d days)",
		engine.Config.WorkingHours.StartHour, engine.Config.WorkingHours.EndHour, engine.Config.MaxAdvanceDays)

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: engine is shutting down...")

	tasks.Stop()
	worker.Shutdown()
	logger.Sugar().Info("main: engine stopped gracefully")
}

func mustSchedule(s *recurring.TaskScheduler, name string, rule models.RecurrenceRule, action recurring.Action) {
	if err := s.Schedule(name, rule, action); err != nil {
		utils.GetLogger().Sugar().Fatalf("main: failed to schedule %s: %v", name, err)
	}
}
