package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-DayBooking/internal/domain"
	"github.com/m04kA/SMC-DayBooking/pkg/sqlbuilder"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл конфигурации
const EnvPrefix = "BOOKING"

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Retention RetentionConfig `toml:"retention"`
	Events    EventsConfig    `toml:"events"`
	Tracing   TracingConfig   `toml:"tracing"`
	Admin     AdminConfig     `toml:"admin"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver" split_words:"true"`
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	Path            string `toml:"path" split_words:"true"` // файл базы для sqlite
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type BookingConfig struct {
	EmailDomain     string   `toml:"email_domain" split_words:"true"`
	AllowedWeekdays []string `toml:"allowed_weekdays" split_words:"true"`
	AllowSameDay    bool     `toml:"allow_same_day" split_words:"true"`
	Timezone        string   `toml:"timezone" split_words:"true"`
}

type RetentionConfig struct {
	Policy          string `toml:"policy" split_words:"true"`
	IntervalSeconds int    `toml:"interval_seconds" split_words:"true"`
}

type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
	Timeout  int    `toml:"timeout" split_words:"true"`
}

type TracingConfig struct {
	Enabled        bool   `toml:"enabled" split_words:"true"`
	Endpoint       string `toml:"endpoint" split_words:"true"`
	Insecure       bool   `toml:"insecure" split_words:"true"`
	Environment    string `toml:"environment" split_words:"true"`
	ServiceVersion string `toml:"service_version" split_words:"true"`
}

type AdminConfig struct {
	Token string `toml:"token" split_words:"true"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          string(sqlbuilder.Postgres),
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "day_booking",
			SSLMode:         "disable",
			Path:            "day_booking.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
			File:  "logs/app.log",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "day_booking",
		},
		Booking: BookingConfig{
			EmailDomain:     domain.DefaultEmailDomain,
			AllowedWeekdays: []string{"sunday", "monday", "tuesday", "wednesday"},
			AllowSameDay:    false,
			Timezone:        "Local",
		},
		Retention: RetentionConfig{
			Policy:          string(domain.RetentionDelete),
			IntervalSeconds: 3600,
		},
		Events: EventsConfig{
			Exchange: "booking.exchange",
			Timeout:  3,
		},
		Tracing: TracingConfig{
			Endpoint:       "localhost:4317",
			Insecure:       true,
			Environment:    "dev",
			ServiceVersion: "dev",
		},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем TOML файл (если есть),
// затем .env и переменные окружения с префиксом BOOKING_
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if _, err := sqlbuilder.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port: invalid port %d", c.Server.HTTPPort)
	}
	if !strings.HasPrefix(c.Booking.EmailDomain, "@") {
		return fmt.Errorf("booking.email_domain: must start with @, got %q", c.Booking.EmailDomain)
	}
	if _, err := c.AllowedWeekdays(); err != nil {
		return fmt.Errorf("booking.allowed_weekdays: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("booking.timezone: %w", err)
	}
	if _, err := c.RetentionPolicy(); err != nil {
		return fmt.Errorf("retention.policy: %w", err)
	}
	if c.Retention.IntervalSeconds < 0 {
		return fmt.Errorf("retention.interval_seconds: must not be negative")
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("events.url: required when events are enabled")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing.endpoint: required when tracing is enabled")
	}
	return nil
}

// Dialect диалект SQL для выбранного драйвера
func (c *Config) Dialect() sqlbuilder.Dialect {
	d, _ := sqlbuilder.ParseDialect(c.Database.Driver)
	return d
}

// DSN строка подключения для выбранного драйвера
func (c *DatabaseConfig) DSN() string {
	if strings.EqualFold(c.Driver, string(sqlbuilder.SQLite)) {
		// один писатель и ожидание блокировки вместо SQLITE_BUSY
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate", c.Path)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// AllowedWeekdays разобранный список разрешенных дней недели
func (c *Config) AllowedWeekdays() ([]time.Weekday, error) {
	if len(c.Booking.AllowedWeekdays) == 0 {
		return nil, fmt.Errorf("at least one weekday is required")
	}

	days := make([]time.Weekday, 0, len(c.Booking.AllowedWeekdays))
	for _, s := range c.Booking.AllowedWeekdays {
		wd, err := domain.ParseWeekday(s)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	return days, nil
}

// AdmissionPolicy правила допуска из конфигурации
func (c *Config) AdmissionPolicy() domain.AdmissionPolicy {
	policy := domain.DefaultAdmissionPolicy()
	policy.EmailDomain = c.Booking.EmailDomain
	policy.AllowSameDay = c.Booking.AllowSameDay
	if days, err := c.AllowedWeekdays(); err == nil {
		policy.AllowedWeekdays = days
	}
	return policy
}

// Location часовой пояс локального календаря
func (c *Config) Location() (*time.Location, error) {
	if c.Booking.Timezone == "" || strings.EqualFold(c.Booking.Timezone, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Booking.Timezone)
}

// RetentionPolicy разобранная политика хранения
func (c *Config) RetentionPolicy() (domain.RetentionPolicy, error) {
	return domain.ParseRetentionPolicy(c.Retention.Policy)
}

// RetentionInterval период фонового прохода, 0 отключает цикл
func (c *Config) RetentionInterval() time.Duration {
	return time.Duration(c.Retention.IntervalSeconds) * time.Second
}

// EventsTimeout таймаут публикации события
func (c *Config) EventsTimeout() time.Duration {
	return time.Duration(c.Events.Timeout) * time.Second
}
