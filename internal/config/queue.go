package config

import "time"

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig controls the job dispatch loop and queue-level retries.
// MaxRetries is the number of automatic retries after a job's first failed
// execution, independent of webhook delivery retries.
type QueueConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// WebhookConfig controls outbound webhook delivery.
// RetrySchedule selects the delay table: "production" or "test".
type WebhookConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	RetrySchedule string        `mapstructure:"retry_schedule"`
}

// SimulatorConfig controls the settlement simulator. Success rates are
// per payment method; the delay stands in for network latency to a PSP.
type SimulatorConfig struct {
	CardSuccessRate float64       `mapstructure:"card_success_rate"`
	UPISuccessRate  float64       `mapstructure:"upi_success_rate"`
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
}
