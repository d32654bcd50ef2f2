package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// AdvisoryConfig configures the optional advisory scoring service.
type AdvisoryConfig struct {
	Enabled     bool
	URL         string
	Model       string
	Timeout     time.Duration
	Backoff     time.Duration
	MaxAttempts int
	RatePerSec  float64
	Burst       int
	CacheTTL    time.Duration
}

type EngineConfig struct {
	Concurrency    int
	MinCIBIL       int
	MaxLoanToValue float64
	DirectoryCSV   string
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Advisory       AdvisoryConfig
	Engine         EngineConfig
	TLS            TLSConfig
	LogLevel       string
	LogFormat      string
	OTLPEndpoint   string
	GRPCReflection bool
	ServiceName    string
}

// Validate reports the first setting that makes the service unusable.
func (c Config) Validate() error {
	if c.DB.Password == "" {
		return errors.New("DB_PASSWORD environment variable is required")
	}
	if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
		return errors.New("KAFKA_BROKERS and KAFKA_TOPIC must be set")
	}
	if c.Advisory.Enabled && c.Advisory.URL == "" {
		return errors.New("ADVISORY_URL is required when ADVISORY_ENABLED=true")
	}
	if c.Advisory.Timeout <= 0 {
		return fmt.Errorf("ADVISORY_TIMEOUT must be positive, got %s", c.Advisory.Timeout)
	}
	if c.Advisory.MaxAttempts < 1 {
		return fmt.Errorf("ADVISORY_MAX_ATTEMPTS must be at least 1, got %d", c.Advisory.MaxAttempts)
	}
	if c.Engine.MinCIBIL < 0 || c.Engine.MaxLoanToValue < 0 {
		return errors.New("DECISION_MIN_CIBIL and DECISION_MAX_LTV must not be negative")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	return nil
}

// Load reads the configuration from the environment. A .env file in the
// working directory, when present, is loaded first and never overrides
// variables that are already set.
func Load() Config {
	_ = godotenv.Load() //nolint:errcheck // the .env file is optional

	return Config{
		GRPCPort: getEnvInt("GRPC_PORT", 9095),
		HTTPPort: getEnvInt("HTTP_PORT", 8095),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bib"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bib_loanrisk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "loanrisk-events"),
		},
		Advisory: AdvisoryConfig{
			Enabled:     getEnvBool("ADVISORY_ENABLED", false),
			URL:         getEnv("ADVISORY_URL", "http://localhost:11434"),
			Model:       getEnv("ADVISORY_MODEL", "llama3"),
			Timeout:     getEnvDuration("ADVISORY_TIMEOUT", 5*time.Second),
			Backoff:     getEnvDuration("ADVISORY_BACKOFF", 200*time.Millisecond),
			MaxAttempts: getEnvInt("ADVISORY_MAX_ATTEMPTS", 2),
			RatePerSec:  getEnvFloat("ADVISORY_RATE_PER_SEC", 5),
			Burst:       getEnvInt("ADVISORY_BURST", 5),
			CacheTTL:    getEnvDuration("ADVISORY_CACHE_TTL", 10*time.Minute),
		},
		Engine: EngineConfig{
			Concurrency:    getEnvInt("ENGINE_CONCURRENCY", 4),
			MinCIBIL:       getEnvInt("DECISION_MIN_CIBIL", 0),
			MaxLoanToValue: getEnvFloat("DECISION_MAX_LTV", 0),
			DirectoryCSV:   getEnv("EMPLOYER_DIRECTORY_CSV", ""),
		},
		TLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		},
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		ServiceName:    "loanrisk-service",
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
