// Package config loads runtime configuration for the scheduler CLI.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config governs the scheduler-cli process. It never touches HTTP, a
// database, or auth — the Kernel has none of those concerns.
type Config struct {
	Env string
	Log LogConfig

	Generator GeneratorConfig
	Batch     BatchConfig
	Report    ReportConfig
	Metrics   MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// GeneratorConfig carries defaults for `scheduler-cli generate`. Only
// DefaultSeed is read by the command; DefaultTimeout is loaded but no
// command applies it.
type GeneratorConfig struct {
	DefaultSeed    int64
	DefaultTimeout time.Duration
}

// BatchConfig holds settings for `scheduler-cli batch`. Only Concurrency is
// read (as the default worker count); MaxRetries and RetryDelay are loaded
// but not used, and the batch runner does not retry.
type BatchConfig struct {
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

// ReportConfig governs the `scheduler-cli report` PDF renderer.
type ReportConfig struct {
	Title string
}

// MetricsConfig holds the metrics namespace setting. It is loaded but not
// read by metrics.New, which registers its collectors without a namespace.
type MetricsConfig struct {
	Namespace string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Generator: GeneratorConfig{
			DefaultSeed:    v.GetInt64("SCHEDULER_SEED"),
			DefaultTimeout: parseDuration(v.GetString("SCHEDULER_TIMEOUT"), 30*time.Second),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("SCHEDULER_BATCH_CONCURRENCY"),
			MaxRetries:  v.GetInt("SCHEDULER_BATCH_MAX_RETRIES"),
			RetryDelay:  parseDuration(v.GetString("SCHEDULER_BATCH_RETRY_DELAY"), time.Second),
		},
		Report: ReportConfig{
			Title: v.GetString("SCHEDULER_REPORT_TITLE"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("SCHEDULER_METRICS_NAMESPACE"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SCHEDULER_SEED", 1)
	v.SetDefault("SCHEDULER_TIMEOUT", "30s")

	v.SetDefault("SCHEDULER_BATCH_CONCURRENCY", 4)
	v.SetDefault("SCHEDULER_BATCH_MAX_RETRIES", 0)
	v.SetDefault("SCHEDULER_BATCH_RETRY_DELAY", "1s")

	v.SetDefault("SCHEDULER_REPORT_TITLE", "Season Schedule Evaluation")
	v.SetDefault("SCHEDULER_METRICS_NAMESPACE", "ll_scheduler")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
