package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB          int    `mapstructure:"REDIS_LOCK_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Scheduling parameters, consumed (not owned) by the engine.
	WorkStartHour   int `mapstructure:"WORK_START_HOUR"`
	WorkEndHour     int `mapstructure:"WORK_END_HOUR"`
	SlotDurationMin int `mapstructure:"SLOT_DURATION_MIN"`
	BufferMin       int `mapstructure:"BUFFER_MIN"`
	MaxAdvanceDays  int `mapstructure:"MAX_ADVANCE_DAYS"`

	// Background maintenance.
	RetentionDays     int     `mapstructure:"RETENTION_DAYS"`
	NotifyRatePerSec  float64 `mapstructure:"NOTIFY_RATE_PER_SEC"`
	DistributedLocks  bool    `mapstructure:"DISTRIBUTED_LOCKS"`
	LockTTLSeconds    int     `mapstructure:"LOCK_TTL_SECONDS"`
	WorkerConcurrency int     `mapstructure:"WORKER_CONCURRENCY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "caseflow")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 1)
	viper.SetDefault("WORK_START_HOUR", 9)
	viper.SetDefault("WORK_END_HOUR", 17)
	viper.SetDefault("SLOT_DURATION_MIN", 60)
	viper.SetDefault("BUFFER_MIN", 15)
	viper.SetDefault("MAX_ADVANCE_DAYS", 60)
	viper.SetDefault("RETENTION_DAYS", 365)
	viper.SetDefault("NOTIFY_RATE_PER_SEC", 5.0)
	viper.SetDefault("DISTRIBUTED_LOCKS", false)
	viper.SetDefault("LOCK_TTL_SECONDS", 10)
	viper.SetDefault("WORKER_CONCURRENCY", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
