package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds service settings, populated from environment variables.
type Server struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	CurveCacheSize int
	CatalogFile    string

	// MaxSamples caps the series length of a single request.
	MaxSamples int

	// Publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadServer reads service settings from the environment, applying defaults
// where unset.
func LoadServer() (*Server, error) {
	shutdownTimeout, err := time.ParseDuration(EnvOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	cacheSize, err := strconv.Atoi(EnvOrDefault("CURVE_CACHE_SIZE", "256"))
	if err != nil || cacheSize <= 0 {
		return nil, errors.New("invalid CURVE_CACHE_SIZE")
	}

	maxSamples, err := strconv.Atoi(EnvOrDefault("MAX_SAMPLES", "100000"))
	if err != nil || maxSamples < 2 {
		return nil, errors.New("invalid MAX_SAMPLES")
	}

	cfg := &Server{
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CurveCacheSize:  cacheSize,
		CatalogFile:     os.Getenv("CATALOG_FILE"),
		MaxSamples:      maxSamples,
		KafkaBrokers:    ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      EnvOrDefault("KAFKA_TOPIC", "design-storms"),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	return cfg, nil
}

// PublishEnabled reports whether generated storms go to Kafka.
func (s *Server) PublishEnabled() bool { return len(s.KafkaBrokers) > 0 }

// EnvOrDefault returns the value of key, or fallback when it is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
