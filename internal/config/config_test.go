package config

import (
	"os"
	"testing"
)

var configEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "UPLOAD_DIR",
	"DATABASE_URL", "DATABASE_MAX_CONNECTIONS",
	"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ",
	"NER_PROVIDER", "NER_MODEL", "OPENAI_API_KEY",
	"MATCH_CLINIC_THRESHOLD", "MATCH_PRODUCT_THRESHOLD",
	"SESSION_SECRET",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_INTERACTIONS",
	"LOG_LEVEL", "METRICS_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "svc-crm-voice-ingress" {
		t.Errorf("expected default principal 'svc-crm-voice-ingress', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.UploadDir != "uploads" {
		t.Errorf("expected default upload dir 'uploads', got %s", cfg.Service.UploadDir)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.STT.LanguageCode)
	}
	if cfg.NER.Provider != "mock" {
		t.Errorf("expected default NER provider 'mock', got %s", cfg.NER.Provider)
	}
	if cfg.Match.ClinicThreshold != 75 {
		t.Errorf("expected default clinic threshold 75, got %d", cfg.Match.ClinicThreshold)
	}
	if cfg.Match.ProductThreshold != 50 {
		t.Errorf("expected default product threshold 50, got %d", cfg.Match.ProductThreshold)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.Topic != "crm.interaction.recorded" {
		t.Errorf("expected default topic 'crm.interaction.recorded', got %s", cfg.Kafka.Topic)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
	if cfg.Observability.MetricsAddr != ":9090" {
		t.Errorf("expected default metrics addr ':9090', got %s", cfg.Observability.MetricsAddr)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)

	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_SAMPLE_RATE_HZ", "8000")
	os.Setenv("NER_PROVIDER", "openai")
	os.Setenv("MATCH_CLINIC_THRESHOLD", "80")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 8000 {
		t.Errorf("expected 8000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.NER.Provider != "openai" {
		t.Errorf("expected 'openai', got %s", cfg.NER.Provider)
	}
	if cfg.Match.ClinicThreshold != 80 {
		t.Errorf("expected 80, got %d", cfg.Match.ClinicThreshold)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)

	os.Setenv("MATCH_CLINIC_THRESHOLD", "not-a-number")
	os.Setenv("KAFKA_ENABLED", "not-a-bool")
	defer clearEnv(t)

	cfg := Load()

	if cfg.Match.ClinicThreshold != 75 {
		t.Errorf("expected fallback 75, got %d", cfg.Match.ClinicThreshold)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected fallback false for invalid bool")
	}
}
