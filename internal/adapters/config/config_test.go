package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("storage backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Scheduler.PulseCheckInterval != 5*time.Minute {
		t.Errorf("pulse check interval = %v", cfg.Scheduler.PulseCheckInterval)
	}
	if cfg.Scheduler.PulseUpdateInterval != 4*time.Hour || cfg.Scheduler.PulseMinSpacing != 2*time.Hour {
		t.Errorf("unexpected pulse thresholds %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.PulseCooldown != time.Minute {
		t.Errorf("pulse cooldown = %v", cfg.Scheduler.PulseCooldown)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http port = %d", cfg.HTTP.Port)
	}
	if cfg.Metrics.Backend != MetricsNone {
		t.Errorf("metrics backend = %q, want none", cfg.Metrics.Backend)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SCHEDULER_PULSE_UPDATE_INTERVAL", "90m")
	t.Setenv("SESSION_TIMEZONE", "Europe/Berlin")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != StoragePostgres {
		t.Errorf("storage backend = %q", cfg.Storage.Backend)
	}
	if cfg.Scheduler.PulseUpdateInterval != 90*time.Minute {
		t.Errorf("pulse update interval = %v", cfg.Scheduler.PulseUpdateInterval)
	}

	dsn := cfg.Database.GetDSN()
	if !strings.Contains(dsn, "host=db.internal") || !strings.Contains(dsn, "password=secret") {
		t.Errorf("unexpected dsn %q", dsn)
	}

	loc, err := cfg.Session.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{Backend: StorageMemory},
			Session: SessionConfig{Backend: SessionFile, File: "session.json", TimeZone: "UTC"},
			Scheduler: SchedulerConfig{
				BriefCheckInterval:  15 * time.Minute,
				PulseCheckInterval:  5 * time.Minute,
				PulseCooldown:       time.Minute,
				PulseUpdateInterval: 4 * time.Hour,
				PulseMinSpacing:     2 * time.Hour,
				StoreTimeout:        10 * time.Second,
			},
			HTTP:    HTTPConfig{Port: 8080},
			Metrics: MetricsConfig{Backend: MetricsNone},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown storage", func(c *Config) { c.Storage.Backend = "sqlite" }, "storage backend"},
		{"redis session without redis", func(c *Config) { c.Session.Backend = SessionRedis }, "REDIS_ENABLED"},
		{"redis session", func(c *Config) { c.Session.Backend = SessionRedis; c.Redis.Enabled = true }, ""},
		{"bad time zone", func(c *Config) { c.Session.TimeZone = "Mars/Olympus" }, "time zone"},
		{"zero interval", func(c *Config) { c.Scheduler.PulseCheckInterval = 0 }, "intervals"},
		{"telegram without token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = 1 }, "bot token"},
		{"telegram without chat", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.BotToken = "t" }, "chat_id"},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http port"},
		{"unknown metrics", func(c *Config) { c.Metrics.Backend = "statsd" }, "metrics backend"},
		{"postgres metrics on memory", func(c *Config) { c.Metrics.Backend = MetricsPostgres }, "postgres storage"},
		{"clickhouse metrics", func(c *Config) { c.Metrics.Backend = MetricsClickHouse }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRedisAddr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: 6380}
	if got := c.Addr(); got != "cache:6380" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestClickHouseDSN(t *testing.T) {
	c := ClickHouseConfig{Host: "ch", Port: 9000, Database: "pulsebrief", User: "default", Password: "p@ss"}
	if got, want := c.GetDSN(), "clickhouse://default:p%40ss@ch:9000/pulsebrief"; got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
