package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"crm-voice-ingress-service/internal/app"
	"crm-voice-ingress-service/internal/config"
	"crm-voice-ingress-service/internal/events"
	httpapi "crm-voice-ingress-service/internal/http"
	"crm-voice-ingress-service/internal/observability"
	"crm-voice-ingress-service/internal/observability/metrics"
	"crm-voice-ingress-service/internal/service/extract"
	"crm-voice-ingress-service/internal/service/ingest"
	"crm-voice-ingress-service/internal/service/ner"
	nermock "crm-voice-ingress-service/internal/service/ner/mock"
	neropenai "crm-voice-ingress-service/internal/service/ner/openai"
	"crm-voice-ingress-service/internal/service/record"
	"crm-voice-ingress-service/internal/service/resolve"
	"crm-voice-ingress-service/internal/service/stt"
	sttgoogle "crm-voice-ingress-service/internal/service/stt/google"
	sttmock "crm-voice-ingress-service/internal/service/stt/mock"
	sttwhisper "crm-voice-ingress-service/internal/service/stt/whisper"
	"crm-voice-ingress-service/internal/session"
	"crm-voice-ingress-service/internal/store"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.NewConnection(ctx, &store.Config{
		URL:            cfg.Database.URL,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()

	transcriber, err := newTranscriber(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.STT.Provider).Msg("STT adapter setup failed")
	}
	defer transcriber.Close()

	publisher := events.New(&events.Config{
		Enabled:   cfg.Kafka.Enabled,
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		Principal: cfg.Kafka.Principal,
	})
	defer publisher.Close()

	repo := store.New(db)
	resolver := resolve.New(repo, repo, cfg.Match.ClinicThreshold, cfg.Match.ProductThreshold)
	extractor := extract.New(newRecognizer(cfg))
	processor := ingest.NewProcessor(transcriber, extractor, resolver, cfg.Service.UploadDir)
	recorder := record.New(metrics.DefaultMetrics)
	sessions := session.NewStore(cfg.Session.Secret)

	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()

	handlers := httpapi.NewHandlers(httpapi.NewSQLDatastore(db), processor, recorder, sessions, publisher)
	srv := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      httpapi.NewRouter(handlers),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("CRM voice ingress service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown failed")
	}
	application.Shutdown()
}

// newTranscriber selects the STT provider from configuration.
func newTranscriber(ctx context.Context, cfg *config.Config) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "google":
		return sttgoogle.New(ctx, cfg.STT.LanguageCode, cfg.STT.SampleRateHz)
	case "whisper":
		return sttwhisper.New(cfg.NER.OpenAIAPIKey), nil
	default:
		return sttmock.New(), nil
	}
}

// newRecognizer selects the NER provider from configuration.
func newRecognizer(cfg *config.Config) ner.Recognizer {
	if cfg.NER.Provider == "openai" {
		return neropenai.New(cfg.NER.OpenAIAPIKey, cfg.NER.Model)
	}
	return nermock.New()
}
