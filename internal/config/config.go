package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service and job settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Location API configuration.
	LocationAPIURL     string
	LocationTimeout    time.Duration
	PrefetchStateLimit int

	// On-disk artifacts.
	WeatherAveragesFile string
	LocationCacheFile   string
	ModelPath           string
	DatasetPath         string
	OfflineDBPath       string

	// Retraining parameters.
	TrainSeed      uint64
	SamplesPerCrop int
	TestFraction   float64
	ForestTrees    int
	ForestMaxDepth int

	// Offline log sync.
	KafkaBrokers          []string
	KafkaPredictionsTopic string
	SyncBatchSize         int
	SyncInterval          time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	locationTimeout, err := parsePositiveDuration("LOCATION_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	syncInterval, err := parsePositiveDuration("SYNC_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	prefetchLimit, err := parsePositiveInt("PREFETCH_STATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	samplesPerCrop, err := parsePositiveInt("SAMPLES_PER_CROP", 150)
	if err != nil {
		return nil, err
	}
	forestTrees, err := parsePositiveInt("FOREST_TREES", 150)
	if err != nil {
		return nil, err
	}
	forestMaxDepth, err := parsePositiveInt("FOREST_MAX_DEPTH", 20)
	if err != nil {
		return nil, err
	}
	syncBatchSize, err := parsePositiveInt("SYNC_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("TRAIN_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid TRAIN_SEED")
	}

	testFraction, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("TEST_FRACTION", "0.2"), 64)
	if err != nil || testFraction <= 0 || testFraction >= 1 {
		return nil, errors.New("invalid TEST_FRACTION: must be between 0 and 1")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		LocationAPIURL:     strings.TrimRight(sharedcfg.EnvOrDefault("LOCATION_API_URL", "https://india-location-hub.in/api/locations"), "/"),
		LocationTimeout:    locationTimeout,
		PrefetchStateLimit: prefetchLimit,

		WeatherAveragesFile: sharedcfg.EnvOrDefault("WEATHER_AVERAGES_FILE", "weather_averages.json"),
		LocationCacheFile:   sharedcfg.EnvOrDefault("LOCATION_CACHE_FILE", "location_cache.json"),
		ModelPath:           sharedcfg.EnvOrDefault("MODEL_PATH", "models/random_forest.json.zst"),
		DatasetPath:         sharedcfg.EnvOrDefault("DATASET_PATH", "data/crop_recommendation.csv"),
		OfflineDBPath:       sharedcfg.EnvOrDefault("OFFLINE_DB_PATH", "offline_logs.db"),

		TrainSeed:      seed,
		SamplesPerCrop: samplesPerCrop,
		TestFraction:   testFraction,
		ForestTrees:    forestTrees,
		ForestMaxDepth: forestMaxDepth,

		KafkaBrokers:          sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaPredictionsTopic: sharedcfg.EnvOrDefault("KAFKA_PREDICTIONS_TOPIC", "crop-predictions"),
		SyncBatchSize:         syncBatchSize,
		SyncInterval:          syncInterval,
	}

	if cfg.LocationAPIURL == "" {
		return nil, errors.New("LOCATION_API_URL is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaPredictionsTopic == "" {
		return nil, errors.New("KAFKA_PREDICTIONS_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}
