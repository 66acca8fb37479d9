package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string

	BusinessHours       scheduling.BusinessHours
	Location            *time.Location
	AvailabilityMaxDays int

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int

	KafkaBrokers string
	KafkaTopic   string

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// Default opening window, used until the salon settings row overrides it.
	start, err := getEnvAsInt("BUSINESS_HOURS_START", 9)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_HOURS_START: %w", err)
	}
	end, err := getEnvAsInt("BUSINESS_HOURS_END", 21)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_HOURS_END: %w", err)
	}
	cfg.BusinessHours = scheduling.BusinessHours{Start: start, End: end}
	if err := cfg.BusinessHours.Validate(); err != nil {
		return nil, fmt.Errorf("invalid business hours: %w", err)
	}

	// Calendar days and hour labels are interpreted in this zone.
	tz := getEnv("BUSINESS_TIMEZONE", "UTC")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", tz, err)
	}

	cfg.AvailabilityMaxDays, err = getEnvAsInt("AVAILABILITY_MAX_DAYS", 31)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_MAX_DAYS: %w", err)
	}
	if cfg.AvailabilityMaxDays < 1 {
		return nil, fmt.Errorf("AVAILABILITY_MAX_DAYS must be positive")
	}

	// Redis is optional; without it the rate limiter is per process.
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RateLimitPerMinute, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	// Events are only published when brokers are set.
	cfg.KafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "reservations")

	cfg.OTelEnabled, err = getEnvAsBool("OTEL_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}
	cfg.OTelEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	cfg.OTelSampleRatio, err = getEnvAsFloat("OTEL_SAMPLING_RATIO", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATIO: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid bool: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}
