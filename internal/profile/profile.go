package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where stride stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your stride instance.
	InstanceURL string

	// Cache Configuration
	RedisAddr     string // STRIDE_REDIS_ADDR (empty disables caching)
	RedisPassword string // STRIDE_REDIS_PASSWORD
	RedisDB       int    // STRIDE_REDIS_DB

	// Reminder Scheduler Configuration
	ReminderInterval  time.Duration // STRIDE_REMINDER_INTERVAL (default: 30s)
	ReminderBatchSize int           // STRIDE_REMINDER_BATCH_SIZE (default: 100)

	// Notification Configuration
	ResendAPIKey string // STRIDE_RESEND_API_KEY (empty logs instead of sending)
	NotifyFrom   string // STRIDE_NOTIFY_FROM (sender address for reminder emails)
	NotifyTo     string // STRIDE_NOTIFY_TO (recipient address for reminder emails)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsCacheEnabled returns true if a redis address is configured.
func (p *Profile) IsCacheEnabled() bool {
	return p.RedisAddr != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from STRIDE_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("STRIDE_MODE", p.Mode)
	p.Addr = getEnvOrDefault("STRIDE_ADDR", p.Addr)
	if port := os.Getenv("STRIDE_PORT"); port != "" {
		if v, err := strconv.Atoi(port); err == nil {
			p.Port = v
		}
	}
	p.Data = getEnvOrDefault("STRIDE_DATA", p.Data)
	p.DSN = getEnvOrDefault("STRIDE_DSN", p.DSN)
	p.Driver = getEnvOrDefault("STRIDE_DRIVER", p.Driver)
	p.InstanceURL = getEnvOrDefault("STRIDE_INSTANCE_URL", p.InstanceURL)

	p.RedisAddr = getEnvOrDefault("STRIDE_REDIS_ADDR", p.RedisAddr)
	p.RedisPassword = getEnvOrDefault("STRIDE_REDIS_PASSWORD", p.RedisPassword)
	if db := os.Getenv("STRIDE_REDIS_DB"); db != "" {
		if v, err := strconv.Atoi(db); err == nil {
			p.RedisDB = v
		}
	}

	if interval := os.Getenv("STRIDE_REMINDER_INTERVAL"); interval != "" {
		if v, err := time.ParseDuration(interval); err == nil && v > 0 {
			p.ReminderInterval = v
		}
	}
	if batch := os.Getenv("STRIDE_REMINDER_BATCH_SIZE"); batch != "" {
		if v, err := strconv.Atoi(batch); err == nil && v > 0 {
			p.ReminderBatchSize = v
		}
	}

	p.ResendAPIKey = getEnvOrDefault("STRIDE_RESEND_API_KEY", p.ResendAPIKey)
	p.NotifyFrom = getEnvOrDefault("STRIDE_NOTIFY_FROM", p.NotifyFrom)
	p.NotifyTo = getEnvOrDefault("STRIDE_NOTIFY_TO", p.NotifyTo)
}

// Validate validates the profile and fills in defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Addr == "" {
		p.Addr = "127.0.0.1"
	}
	if p.Port == 0 {
		p.Port = 8081
	}
	if p.Data == "" {
		p.Data = "."
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			p.DSN = strings.TrimSuffix(p.Data, "/") + "/stride_" + p.Mode + ".db"
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn is required for postgres driver")
		}
	default:
		return errors.Errorf("unsupported driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}
	if p.ReminderInterval <= 0 {
		p.ReminderInterval = 30 * time.Second
	}
	if p.ReminderBatchSize <= 0 {
		p.ReminderBatchSize = 100
	}
	return nil
}

func (p *Profile) String() string {
	return fmt.Sprintf("mode=%s addr=%s port=%d driver=%s cache=%t", p.Mode, p.Addr, p.Port, p.Driver, p.IsCacheEnabled())
}
