// config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	Twilio      TwilioConfig
	SMTP        SMTPConfig
	Scheduler   SchedulerConfig
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	SMSFrom      string
	WhatsAppFrom string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type SchedulerConfig struct {
	// Interval is the gap between tick completions; Tolerance must be at
	// least as large as Interval or reminders can fall between two ticks.
	Interval        time.Duration
	Tolerance       time.Duration
	DispatchTimeout time.Duration
	Workers         int
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DB_URL", ""),
		Twilio: TwilioConfig{
			AccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
			SMSFrom:      getEnv("TWILIO_SMS_FROM", ""),
			WhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
		},
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("SMTP_FROM_EMAIL", getEnv("SMTP_USERNAME", "")),
			FromName:  getEnv("SMTP_FROM_NAME", "AI Cruel Deadline Manager"),
		},
		Scheduler: SchedulerConfig{
			Interval:        getEnvAsDuration("REMINDER_INTERVAL", 5*time.Minute),
			Tolerance:       getEnvAsDuration("REMINDER_TOLERANCE", 5*time.Minute),
			DispatchTimeout: getEnvAsDuration("DISPATCH_TIMEOUT", 10*time.Second),
			Workers:         getEnvAsInt("DISPATCH_WORKERS", 4),
		},
	}

	if cfg.Scheduler.Tolerance < cfg.Scheduler.Interval {
		cfg.Scheduler.Tolerance = cfg.Scheduler.Interval
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
