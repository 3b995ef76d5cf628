package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Tracing    TracingConfig    `toml:"tracing"`
	Redis      RedisConfig      `toml:"redis"`
	Kafka      KafkaConfig      `toml:"kafka"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
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

// LogsConfig параметры логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus метрик
type MetricsConfig struct {
	Enabled           bool   `toml:"enabled"`
	Path              string `toml:"path"`
	ServiceName       string `toml:"service_name"`
	PoolStatsInterval int    `toml:"pool_stats_interval"`
}

// TracingConfig параметры OpenTelemetry
type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

// RedisConfig параметры кэша правил и политики
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL возвращает время жизни записей кэша
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// KafkaConfig параметры публикации событий
type KafkaConfig struct {
	Brokers     string `toml:"brokers"`
	TopicPrefix string `toml:"topic_prefix"`
}

// BrokerList возвращает список брокеров из строки через запятую
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// SchedulingConfig параметры движка расписания
type SchedulingConfig struct {
	DefaultTimezone       string  `toml:"default_timezone"`
	BookingTimeoutSeconds int     `toml:"booking_timeout_seconds"`
	LockTimeoutMillis     int     `toml:"lock_timeout_ms"`
	WriteRateLimit        float64 `toml:"write_rate_limit"`
	WriteRateBurst        int     `toml:"write_rate_burst"`
	RateLimitIdleSeconds  int     `toml:"rate_limit_idle_seconds"`
	TrustForwardedFor     bool    `toml:"trust_forwarded_for"`
}

// BookingTimeout возвращает таймаут транзакции бронирования
func (s SchedulingConfig) BookingTimeout() time.Duration {
	return time.Duration(s.BookingTimeoutSeconds) * time.Second
}

// RateLimitIdleTTL возвращает время жизни неактивного клиента в ограничителе
func (s SchedulingConfig) RateLimitIdleTTL() time.Duration {
	return time.Duration(s.RateLimitIdleSeconds) * time.Second
}

// LockTimeout возвращает lock_timeout для транзакций
func (s SchedulingConfig) LockTimeout() time.Duration {
	return time.Duration(s.LockTimeoutMillis) * time.Millisecond
}

// Load читает конфигурацию из TOML файла, заполняет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:              "/metrics",
			ServiceName:       "scheduling-service",
			PoolStatsInterval: 15,
		},
		Tracing: TracingConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Kafka: KafkaConfig{
			TopicPrefix: "scheduling.",
		},
		Scheduling: SchedulingConfig{
			DefaultTimezone:       "UTC",
			BookingTimeoutSeconds: 5,
			LockTimeoutMillis:     2000,
			WriteRateLimit:        20,
			WriteRateBurst:        40,
			RateLimitIdleSeconds:  600,
		},
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.TTLSeconds <= 0 {
		return fmt.Errorf("%w: redis.ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.Scheduling.BookingTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: scheduling.booking_timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Scheduling.LockTimeoutMillis < 0 {
		return fmt.Errorf("%w: scheduling.lock_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Scheduling.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: scheduling.default_timezone=%q: %v", ErrInvalidConfig, c.Scheduling.DefaultTimezone, err)
	}
	return nil
}
