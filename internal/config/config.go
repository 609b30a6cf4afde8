package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	VenueService VenueServiceConfig `toml:"venue_service"`
	Booking      BookingConfig      `toml:"booking"`
	Lock         LockConfig         `toml:"lock"`
	Events       EventsConfig       `toml:"events"`
	Tracing      TracingConfig      `toml:"tracing"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// VenueServiceConfig настройки клиента каталога кортов
type VenueServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// BookingConfig настройки регулярных бронирований
type BookingConfig struct {
	Timezone            string `toml:"timezone"`
	CommitTimeout       int    `toml:"commit_timeout"` // секунды
	MaxCommitRetries    int    `toml:"max_commit_retries"`
	MaxSpanMonths       int    `toml:"max_span_months"`
	DurationStepMinutes int    `toml:"duration_step_minutes"`
	MaxDurationSteps    int    `toml:"max_duration_steps"`
	AdvanceBookingDays  int    `toml:"advance_booking_days"`
}

// Location возвращает часовой пояс площадки
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	return loc, nil
}

// CommitTimeoutDuration возвращает таймаут фиксации группы
func (b BookingConfig) CommitTimeoutDuration() time.Duration {
	return time.Duration(b.CommitTimeout) * time.Second
}

// LockConfig настройки распределенной блокировки слотов в redis
type LockConfig struct {
	Enabled     bool   `toml:"enabled"`
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	TTL         int    `toml:"ttl"`          // секунды
	WaitTimeout int    `toml:"wait_timeout"` // миллисекунды
}

// EventsConfig настройки публикации событий в RabbitMQ
type EventsConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	Endpoint    string  `toml:"endpoint"`
	Environment string  `toml:"environment"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Load загружает конфигурацию из TOML файла и заполняет значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.VenueService.URL == "" {
		return fmt.Errorf("%w: venue_service.url is required", ErrInvalidConfig)
	}
	if c.Booking.CommitTimeout <= 0 {
		return fmt.Errorf("%w: booking.commit_timeout must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxSpanMonths <= 0 || c.Booking.DurationStepMinutes <= 0 || c.Booking.MaxDurationSteps <= 0 {
		return fmt.Errorf("%w: booking policy defaults must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return err
	}
	if c.Lock.Enabled && c.Lock.Addr == "" {
		return fmt.Errorf("%w: lock.addr is required when lock is enabled", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "court-booking-service",
		},
		VenueService: VenueServiceConfig{Timeout: 5},
		Booking: BookingConfig{
			Timezone:            "UTC",
			CommitTimeout:       10,
			MaxCommitRetries:    3,
			MaxSpanMonths:       3,
			DurationStepMinutes: 30,
			MaxDurationSteps:    8,
		},
		Lock: LockConfig{
			TTL:         15,
			WaitTimeout: 3000,
		},
		Events: EventsConfig{Exchange: "court-booking.events"},
		Tracing: TracingConfig{
			Environment: "development",
			SampleRatio: 1,
		},
	}
}
