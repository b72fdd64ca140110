package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Scheduler metrics backends
const (
	MetricsNone       = "none"
	MetricsPostgres   = "postgres"
	MetricsClickHouse = "clickhouse"
)

// Session persistence backends
const (
	SessionFile  = "file"
	SessionRedis = "redis"
)

// Config represents application configuration.
// Nested fields resolve through their full tag name, e.g. DB_HOST.
type Config struct {
	Storage    StorageConfig    `envconfig:"STORAGE"`
	Database   DatabaseConfig   `envconfig:"DB"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	Scheduler  SchedulerConfig  `envconfig:"SCHEDULER"`
	Session    SessionConfig    `envconfig:"SESSION"`
	HTTP       HTTPConfig       `envconfig:"HTTP"`
	Telegram   TelegramConfig   `envconfig:"TELEGRAM"`
	Metrics    MetricsConfig    `envconfig:"METRICS"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Logging    LoggingConfig    `envconfig:"LOG"`
}

// StorageConfig selects where briefs and pulse updates live
type StorageConfig struct {
	Backend string `envconfig:"STORAGE_BACKEND" default:"memory"` // memory or postgres
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	Name           string `envconfig:"DB_NAME" default:"pulsebrief"`
	User           string `envconfig:"DB_USER" default:"postgres"`
	Password       string `envconfig:"DB_PASSWORD"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
	AutoMigrate    bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	MaxOpenConns   int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
}

// RedisConfig represents Redis connection used for locks and session state
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SchedulerConfig represents auto-generation timing
type SchedulerConfig struct {
	BriefEnabled        bool          `envconfig:"SCHEDULER_BRIEF_ENABLED" default:"true"`
	BriefCheckInterval  time.Duration `envconfig:"SCHEDULER_BRIEF_CHECK_INTERVAL" default:"15m"`
	BriefDailySchedule  string        `envconfig:"SCHEDULER_BRIEF_DAILY_SCHEDULE" default:"0 0 * * *"`
	PulseEnabled        bool          `envconfig:"SCHEDULER_PULSE_ENABLED" default:"true"`
	PulseCheckInterval  time.Duration `envconfig:"SCHEDULER_PULSE_CHECK_INTERVAL" default:"5m"`
	PulseCooldown       time.Duration `envconfig:"SCHEDULER_PULSE_COOLDOWN" default:"1m"`
	PulseUpdateInterval time.Duration `envconfig:"SCHEDULER_PULSE_UPDATE_INTERVAL" default:"4h"`
	PulseMinSpacing     time.Duration `envconfig:"SCHEDULER_PULSE_MIN_SPACING" default:"2h"`
	StoreTimeout        time.Duration `envconfig:"SCHEDULER_STORE_TIMEOUT" default:"10s"`
}

// SessionConfig represents the viewer session
type SessionConfig struct {
	Backend  string `envconfig:"SESSION_BACKEND" default:"file"` // file or redis
	File     string `envconfig:"SESSION_FILE" default:"data/session.json"`
	TimeZone string `envconfig:"SESSION_TIMEZONE" default:"Local"`
	Email    string `envconfig:"SESSION_EMAIL"` // signs in at startup when set
}

// HTTPConfig represents API server parameters
type HTTPConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// TelegramConfig represents Telegram publishing
type TelegramConfig struct {
	Enabled  bool   `envconfig:"TELEGRAM_ENABLED" default:"false"`
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// MetricsConfig represents scheduler run metrics
type MetricsConfig struct {
	Backend       string        `envconfig:"METRICS_BACKEND" default:"none"` // none, postgres or clickhouse
	BatchSize     int           `envconfig:"METRICS_BATCH_SIZE" default:"100"`
	FlushInterval time.Duration `envconfig:"METRICS_FLUSH_INTERVAL" default:"30s"`
	MaxBufferSize int           `envconfig:"METRICS_MAX_BUFFER_SIZE" default:"10000"`
}

// ClickHouseConfig represents ClickHouse connection for metrics
type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database string `envconfig:"CLICKHOUSE_DATABASE" default:"pulsebrief"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("storage backend must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Backend)
	}

	switch c.Session.Backend {
	case SessionFile:
		if c.Session.File == "" {
			return fmt.Errorf("session file is required for the file session backend")
		}
	case SessionRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("redis session backend requires REDIS_ENABLED")
		}
	default:
		return fmt.Errorf("session backend must be %q or %q, got %q", SessionFile, SessionRedis, c.Session.Backend)
	}

	if _, err := c.Session.Location(); err != nil {
		return err
	}

	s := c.Scheduler
	if s.BriefCheckInterval <= 0 || s.PulseCheckInterval <= 0 {
		return fmt.Errorf("scheduler check intervals must be positive")
	}
	if s.PulseCooldown < 0 || s.PulseUpdateInterval <= 0 || s.PulseMinSpacing < 0 {
		return fmt.Errorf("pulse thresholds must not be negative")
	}
	if s.StoreTimeout <= 0 {
		return fmt.Errorf("store timeout must be positive")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port must be between 1 and 65535")
	}

	switch c.Metrics.Backend {
	case MetricsNone, MetricsClickHouse:
	case MetricsPostgres:
		if c.Storage.Backend != StoragePostgres {
			return fmt.Errorf("postgres metrics require the postgres storage backend")
		}
	default:
		return fmt.Errorf("metrics backend must be %q, %q or %q, got %q", MetricsNone, MetricsPostgres, MetricsClickHouse, c.Metrics.Backend)
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram bot token is required")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram chat_id is required")
		}
	}

	return nil
}

// Location resolves the session time zone
func (c *SessionConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid session time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetDSN returns ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.Database,
	)
}

// Addr returns host:port of the Redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
