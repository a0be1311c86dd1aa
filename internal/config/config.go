package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/urbanairlab/source-attribution/internal/domain"
)

// Config holds all stage settings, populated from environment variables.
type Config struct {
	InputFile       string
	LabeledFile     string
	PerformanceFile string
	ModelFile       string

	LogLevel        string
	LogFormat       string
	HTTPAddr        string // empty disables the metrics server
	ShutdownTimeout time.Duration

	// Labeling and simulation.
	Thresholds      domain.Thresholds
	BalanceFraction float64
	ClassMin        int
	SimMaxAttempts  int
	Seed            int64

	// Training.
	SplitRatio float64

	// Labeled-event export.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	thresholds, err := parseThresholds()
	if err != nil {
		return nil, err
	}

	balanceFraction, err := parseFloat("BALANCE_FRACTION", 0.9)
	if err != nil {
		return nil, err
	}
	if balanceFraction <= 0 || balanceFraction > 1 {
		return nil, errors.New("BALANCE_FRACTION must be in (0, 1]")
	}

	splitRatio, err := parseFloat("SPLIT_RATIO", 0.8)
	if err != nil {
		return nil, err
	}
	if splitRatio <= 0 || splitRatio >= 1 {
		return nil, errors.New("SPLIT_RATIO must be in (0, 1)")
	}

	classMin, err := parseInt("CLASS_MIN", 25)
	if err != nil {
		return nil, err
	}
	if classMin < 1 {
		return nil, errors.New("CLASS_MIN must be at least 1")
	}

	maxAttempts, err := parseInt("SIM_MAX_ATTEMPTS", 100)
	if err != nil {
		return nil, err
	}
	if maxAttempts < 1 {
		return nil, errors.New("SIM_MAX_ATTEMPTS must be at least 1")
	}

	seed, err := parseInt("SEED", 42)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputFile:       envOrDefault("INPUT_FILE", "data/processed_data.csv"),
		LabeledFile:     envOrDefault("LABELED_FILE", "data/labeled_data.csv"),
		PerformanceFile: envOrDefault("PERFORMANCE_FILE", "data/model_performance.json"),
		ModelFile:       envOrDefault("MODEL_FILE", "models/best_model.json"),

		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		Thresholds:      thresholds,
		BalanceFraction: balanceFraction,
		ClassMin:        classMin,
		SimMaxAttempts:  maxAttempts,
		Seed:            int64(seed),

		SplitRatio: splitRatio,

		KafkaEnabled:   envOrDefault("KAFKA_ENABLED", "false") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "labeled-air-quality"),
	}

	if cfg.InputFile == "" {
		return nil, errors.New("INPUT_FILE is required")
	}
	if cfg.LabeledFile == "" {
		return nil, errors.New("LABELED_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}

	return cfg, nil
}

// parseThresholds merges LABEL_THRESHOLDS overrides ("name=value,...") into
// the default rule thresholds.
func parseThresholds() (domain.Thresholds, error) {
	defaults := domain.DefaultThresholds()
	raw := os.Getenv("LABEL_THRESHOLDS")
	if raw == "" {
		return defaults, nil
	}
	overrides, err := domain.ParseThresholdOverrides(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid LABEL_THRESHOLDS: %w", err)
	}
	merged, err := defaults.Merge(overrides)
	if err != nil {
		return nil, fmt.Errorf("invalid LABEL_THRESHOLDS: %w", err)
	}
	return merged, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
