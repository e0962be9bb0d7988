// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the root configuration for the service.
type Config struct {
	Service       ServiceConfig
	Database      DatabaseConfig
	STT           STTConfig
	NER           NERConfig
	Match         MatchConfig
	Session       SessionConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
	UploadDir string
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	URL            string
	MaxConnections int32
}

// STTConfig selects and tunes the speech-to-text provider.
type STTConfig struct {
	Provider     string // mock, google, whisper
	LanguageCode string
	SampleRateHz int32
}

// NERConfig selects the named-entity-recognition provider.
type NERConfig struct {
	Provider     string // mock, openai
	Model        string
	OpenAIAPIKey string
}

// MatchConfig holds the reconciliation thresholds. These are configuration
// data, not logic: 75 for clinics and 50 for products unless overridden.
type MatchConfig struct {
	ClinicThreshold  int
	ProductThreshold int
}

// SessionConfig holds cookie-session settings.
type SessionConfig struct {
	Secret string
}

// KafkaConfig holds event publisher settings.
type KafkaConfig struct {
	Enabled   bool
	Brokers   []string
	Topic     string
	Principal string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsAddr string
}

// Load reads configuration from the environment, applying defaults.
// A local .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-crm-voice-ingress"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
			UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),
		},
		Database: DatabaseConfig{
			URL:            os.Getenv("DATABASE_URL"),
			MaxConnections: int32(envOrDefaultInt("DATABASE_MAX_CONNECTIONS", 10)),
		},
		STT: STTConfig{
			Provider:     envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode: envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz: int32(envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000)),
		},
		NER: NERConfig{
			Provider:     envOrDefault("NER_PROVIDER", "mock"),
			Model:        envOrDefault("NER_MODEL", "gpt-4o-mini"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Match: MatchConfig{
			ClinicThreshold:  envOrDefaultInt("MATCH_CLINIC_THRESHOLD", 75),
			ProductThreshold: envOrDefaultInt("MATCH_PRODUCT_THRESHOLD", 50),
		},
		Session: SessionConfig{
			Secret: envOrDefault("SESSION_SECRET", "dev-only-secret"),
		},
		Kafka: KafkaConfig{
			Enabled:   envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:   envList("KAFKA_BROKERS"),
			Topic:     envOrDefault("KAFKA_TOPIC_INTERACTIONS", "crm.interaction.recorded"),
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-crm-voice-ingress"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
