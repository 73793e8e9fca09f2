package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// New creates the configuration from environment variables. All missing or invalid variables are
// reported in the returned error.
func New() (Config, error) {
	var errs []error
	require := func(key string) string {
		value, err := requireEnv(key)
		errs = append(errs, err)
		return value
	}
	requireInt := func(key string) int {
		value, err := requireEnvAsInt(key)
		errs = append(errs, err)
		return value
	}
	optionalInt := func(key string, fallback int) int {
		value, err := getEnvAsInt(key, fallback)
		errs = append(errs, err)
		return value
	}

	logLevel, err := getEnvAsLevel("LOG_LEVEL", slog.LevelInfo)
	errs = append(errs, err)
	logPretty, err := getEnvAsBool("LOG_PRETTY", false)
	errs = append(errs, err)
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 5*time.Minute)
	errs = append(errs, err)

	config := Config{
		BasePath:           getEnv("BASE_PATH", ""),
		Port:               optionalInt("PORT", 8080),
		LogLevel:           logLevel,
		LogPretty:          logPretty,
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		Postgresql: Postgresql{
			Host:         require("DATABASE_HOST"),
			Port:         requireInt("DATABASE_PORT"),
			Username:     require("DATABASE_USERNAME"),
			Password:     require("DATABASE_PASSWORD"),
			DatabaseName: require("DATABASE_NAME"),
		},
		Redis: Redis{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     optionalInt("REDIS_PORT", 6379),
			CacheTTL: cacheTTL,
		},
		RabbitMQ: RabbitMQ{
			Host:     getEnv("RABBITMQ_HOST", ""),
			Port:     optionalInt("RABBITMQ_PORT", 5672),
			Username: getEnv("RABBITMQ_USERNAME", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "calendar.events"),
		},
		Tracing: Tracing{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
			ServiceName:    getEnv("SERVICE_NAME", "im-calendar"),
		},
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

type Config struct {
	BasePath string
	Port     int
	LogLevel slog.Level
	// LogPretty indents every JSON log record.
	LogPretty bool
	// CORSAllowedOrigins all origins are allowed if empty.
	CORSAllowedOrigins []string
	Postgresql         Postgresql
	Redis              Redis
	RabbitMQ           RabbitMQ
	Tracing            Tracing
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

// Redis caching of events is disabled if Host is empty.
type Redis struct {
	Host     string
	Port     int
	CacheTTL time.Duration
}

func (r Redis) Enabled() bool {
	return r.Host != ""
}

// RabbitMQ publishing of event changes is disabled if Host is empty.
type RabbitMQ struct {
	Host     string
	Port     int
	Username string
	Password string
	Exchange string
}

func (r RabbitMQ) Enabled() bool {
	return r.Host != ""
}

func (r RabbitMQ) GetURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

// Tracing exporting of traces is disabled if JaegerEndpoint is empty.
type Tracing struct {
	JaegerEndpoint string
	ServiceName    string
}

func (t Tracing) Enabled() bool {
	return t.JaegerEndpoint != ""
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", fmt.Errorf("required environment variable %q not set", key)
	}
	return value, nil
}

func requireEnvAsInt(key string) (int, error) {
	valueStr, err := requireEnv(key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as int: %v", key, err)
	}
	return value, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as int: %v", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("failed to parse environment variable %q as bool: %v", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as duration: %v", key, err)
	}
	return value, nil
}

func getEnvAsLevel(key string, fallback slog.Level) (slog.Level, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(valueStr)); err != nil {
		return 0, fmt.Errorf("failed to parse environment variable %q as log level: %v", key, err)
	}
	return level, nil
}

func getEnvAsList(key string) []string {
	valueStr, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(valueStr) == "" {
		return nil
	}

	var values []string
	for _, value := range strings.Split(valueStr, ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
