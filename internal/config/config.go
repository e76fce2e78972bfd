package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers       []string
	KafkaInboundTopic  string
	KafkaOutboundTopic string
	KafkaGroupID       string
	HTTPAddr           string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Reply compression.
	SMSMaxLength        int
	SMSTruncationSuffix string
	RelayNumber         string

	// OpenWeatherMap configuration.
	WeatherAPIKey    string
	WeatherEnabled   bool
	WeatherTimeout   time.Duration
	WeatherCacheSize int
	WeatherCacheTTL  time.Duration
	DefaultLat       float64
	DefaultLon       float64

	// OpenAI configuration.
	OpenAIAPIKey     string
	AssistantEnabled bool
	AssistantModel   string
	AssistantTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. Variables from a .env file (ENV_FILE overrides the path) fill in
// anything not already set in the environment.
func Load() (*Config, error) {
	if err := loadDotEnv(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	maxLength, err := parseNonNegativeInt("SMS_MAX_LENGTH", domain.SMSMaxLength)
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherCacheTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	assistantTimeout, err := parsePositiveDuration("ASSISTANT_TIMEOUT", "25s")
	if err != nil {
		return nil, err
	}

	defaultLat, err := parseFloat("DEFAULT_LAT", 37.7749)
	if err != nil {
		return nil, err
	}
	defaultLon, err := parseFloat("DEFAULT_LON", -122.4194)
	if err != nil {
		return nil, err
	}

	suffix := domain.DefaultTruncationSuffix
	if v, ok := os.LookupEnv("SMS_TRUNCATION_SUFFIX"); ok {
		suffix = v
	}

	weatherKey := os.Getenv("WEATHER_API_KEY")
	openAIKey := os.Getenv("OPENAI_API_KEY")

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaInboundTopic:  sharedcfg.EnvOrDefault("KAFKA_INBOUND_TOPIC", "inbound-sms"),
		KafkaOutboundTopic: sharedcfg.EnvOrDefault("KAFKA_OUTBOUND_TOPIC", "outbound-sms"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "beacon-relay"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		SMSMaxLength:        maxLength,
		SMSTruncationSuffix: suffix,
		RelayNumber:         os.Getenv("RELAY_NUMBER"),

		WeatherAPIKey:    weatherKey,
		WeatherEnabled:   enabledFlag("WEATHER_ENABLED", weatherKey != ""),
		WeatherTimeout:   weatherTimeout,
		WeatherCacheSize: parseCacheSize("WEATHER_CACHE_SIZE", 500),
		WeatherCacheTTL:  weatherCacheTTL,
		DefaultLat:       defaultLat,
		DefaultLon:       defaultLon,

		OpenAIAPIKey:     openAIKey,
		AssistantEnabled: enabledFlag("ASSISTANT_ENABLED", openAIKey != ""),
		AssistantModel:   sharedcfg.EnvOrDefault("ASSISTANT_MODEL", "gpt-4o-mini"),
		AssistantTimeout: assistantTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaInboundTopic == "" {
		return nil, errors.New("KAFKA_INBOUND_TOPIC is required")
	}
	if cfg.KafkaOutboundTopic == "" {
		return nil, errors.New("KAFKA_OUTBOUND_TOPIC is required")
	}
	if cfg.WeatherEnabled && cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_ENABLED is true but WEATHER_API_KEY is not set")
	}
	if cfg.AssistantEnabled && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("ASSISTANT_ENABLED is true but OPENAI_API_KEY is not set")
	}
	if cfg.DefaultLat < -90 || cfg.DefaultLat > 90 {
		return nil, errors.New("DEFAULT_LAT must be between -90 and 90")
	}
	if cfg.DefaultLon < -180 || cfg.DefaultLon > 180 {
		return nil, errors.New("DEFAULT_LON must be between -180 and 180")
	}

	return cfg, nil
}

// ReplyOptions returns the compression options applied to every reply.
func (c *Config) ReplyOptions() domain.CompressionOptions {
	return domain.CompressionOptions{MaxLength: c.SMSMaxLength, TruncationSuffix: c.SMSTruncationSuffix}
}

// DefaultLocation is used for weather requests that carry no coordinates.
func (c *Config) DefaultLocation() domain.Coordinates {
	return domain.Coordinates{Lat: c.DefaultLat, Lon: c.DefaultLon}
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func enabledFlag(name string, def bool) bool {
	if v := os.Getenv(name); v != "" {
		return v == "true"
	}
	return def
}

func parsePositiveDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

func parseNonNegativeInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", name)
	}
	return n, nil
}

func parseFloat(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return f, nil
}

func parseCacheSize(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
