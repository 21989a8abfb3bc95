package cfg

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type FlightServiceConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string
}

type KafkaConfig struct {
	Brokers      []string
	BookingTopic string
}

type Config struct {
	AppEnv                  string
	AppPort                 string
	RedisConfig             RedisConfig
	FlightService           FlightServiceConfig
	Observability           ObservabilityConfig
	Kafka                   KafkaConfig
	CacheTTLMinutes         int
	AvailabilityConcurrency int
	SessionTTLMinutes       int
	CORSAllowedOrigins      []string
}

func Load() (*Config, error) {
	var errs []error

	// a missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("failed load cfg: " + err.Error())
	}

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)
	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := optionalEnv("REDIS_PASSWORD", "")
	apiBaseURL := mustEnv("API_BASE_URL", &errs)

	apiTimeout := intEnv("API_TIMEOUT_SECONDS", 5, &errs)
	cacheTTLMinutes := intEnv("CACHE_TTL_MINUTES", 60, &errs)
	concurrency := intEnv("AVAILABILITY_CONCURRENCY", 8, &errs)
	sessionTTL := intEnv("SESSION_TTL_MINUTES", 30, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		FlightService: FlightServiceConfig{
			BaseURL:        apiBaseURL,
			TimeoutSeconds: apiTimeout,
		},
		Observability: ObservabilityConfig{
			ServiceName:  optionalEnv("OTEL_SERVICE_NAME", "flightdesk"),
			Environment:  appEnv,
			OTLPEndpoint: optionalEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		},
		Kafka: KafkaConfig{
			Brokers:      listEnv("KAFKA_BROKERS", ""),
			BookingTopic: optionalEnv("KAFKA_BOOKING_TOPIC", "flightdesk.bookings.confirmed"),
		},
		CacheTTLMinutes:         cacheTTLMinutes,
		AvailabilityConcurrency: concurrency,
		SessionTTLMinutes:       sessionTTL,
		CORSAllowedOrigins:      listEnv("CORS_ALLOWED_ORIGINS", "*"),
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func optionalEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value := optionalEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}

func listEnv(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(optionalEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
