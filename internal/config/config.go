package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultDatasetURL is the published global temperature reference file.
const DefaultDatasetURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

var validate = validator.New()

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetURL             string        `validate:"required,url"`
	DatasetTimeout         time.Duration `validate:"gt=0"`
	DatasetRefreshInterval time.Duration `validate:"gte=0"`
	BreakerMaxFailures     int           `validate:"gte=1"`

	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn warning error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration
	RenderCacheSize int `validate:"gte=1"`

	// Kafka export of cell encodings.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	datasetTimeout, err := parseDuration("DATASET_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("DATASET_REFRESH_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}
	breakerMaxFailures, err := parseInt("BREAKER_MAX_FAILURES", 3)
	if err != nil {
		return nil, err
	}
	renderCacheSize, err := parseInt("RENDER_CACHE_SIZE", 32)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DatasetURL:             sharedcfg.EnvOrDefault("DATASET_URL", DefaultDatasetURL),
		DatasetTimeout:         datasetTimeout,
		DatasetRefreshInterval: refreshInterval,
		BreakerMaxFailures:     breakerMaxFailures,
		HTTPAddr:               sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		RenderCacheSize:        renderCacheSize,
		KafkaBrokers:           brokers,
		KafkaTopic:             sharedcfg.EnvOrDefault("KAFKA_TOPIC", "heatmap-cells"),
		KafkaEnabled:           kafkaEnabled,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
