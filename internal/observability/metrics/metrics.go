// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm_voice_ingress"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Upload metrics
	UploadsTotal   prometheus.Counter
	UploadsSkipped *prometheus.CounterVec
	UploadBytes    prometheus.Counter

	// Transcription metrics
	TranscriptionsTotal   *prometheus.CounterVec
	TranscriptionErrors   *prometheus.CounterVec
	TranscriptionLatency  *prometheus.HistogramVec

	// Pipeline metrics
	ExtractionsTotal prometheus.Counter
	ClipsDropped     *prometheus.CounterVec
	ClinicMatches    *prometheus.CounterVec

	// Recording metrics
	InteractionsRecorded  prometheus.Counter
	InteractionsDuplicate prometheus.Counter
	InteractionsSkipped   *prometheus.CounterVec
	ClinicsCreated        prometheus.Counter
	SalesRepsCreated      prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Export metrics
	ExportsTotal *prometheus.CounterVec
	ExportRows   prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		UploadsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of audio files uploaded",
		}),
		UploadsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_skipped_total",
			Help:      "Total number of uploaded files skipped",
		}, []string{"reason"}),
		UploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Total audio bytes received",
		}),

		TranscriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Total number of transcriptions performed",
		}, []string{"provider"}),
		TranscriptionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcription_errors_total",
			Help:      "Total number of transcription errors",
		}, []string{"provider"}),
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Transcription latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider"}),

		ExtractionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of field extractions performed",
		}),
		ClipsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clips_dropped_total",
			Help:      "Total number of clips dropped before review",
		}, []string{"reason"}),
		ClinicMatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clinic_matches_total",
			Help:      "Total number of clinic resolutions by match type",
		}, []string{"match_type"}),

		InteractionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_recorded_total",
			Help:      "Total number of interaction rows inserted",
		}),
		InteractionsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_duplicate_total",
			Help:      "Total number of duplicate interactions skipped",
		}),
		InteractionsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_skipped_total",
			Help:      "Total number of interactions skipped",
		}, []string{"reason"}),
		ClinicsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clinics_created_total",
			Help:      "Total number of new clinics created",
		}),
		SalesRepsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_reps_created_total",
			Help:      "Total number of sales reps created lazily",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of archive exports",
		}, []string{"format"}),
		ExportRows: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_rows_total",
			Help:      "Total number of interaction rows exported",
		}),
	}
}

// RecordUpload records an accepted upload.
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadsTotal.Inc()
	m.UploadBytes.Add(float64(bytes))
}

// RecordUploadSkipped records an upload skipped before processing.
func (m *Metrics) RecordUploadSkipped(reason string) {
	m.UploadsSkipped.WithLabelValues(reason).Inc()
}

// RecordTranscription records a transcription attempt.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	m.TranscriptionsTotal.WithLabelValues(provider).Inc()
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.TranscriptionErrors.WithLabelValues(provider).Inc()
	}
}

// RecordExtraction records a field extraction.
func (m *Metrics) RecordExtraction() {
	m.ExtractionsTotal.Inc()
}

// RecordClipDropped records a clip dropped before review.
func (m *Metrics) RecordClipDropped(reason string) {
	m.ClipsDropped.WithLabelValues(reason).Inc()
}

// RecordClinicMatch records a clinic resolution outcome.
func (m *Metrics) RecordClinicMatch(matchType string) {
	m.ClinicMatches.WithLabelValues(matchType).Inc()
}

// RecordInteraction records a persisted interaction row.
func (m *Metrics) RecordInteraction() {
	m.InteractionsRecorded.Inc()
}

// RecordInteractionDuplicate records an idempotent duplicate hit.
func (m *Metrics) RecordInteractionDuplicate() {
	m.InteractionsDuplicate.Inc()
}

// RecordInteractionSkipped records a skipped interaction.
func (m *Metrics) RecordInteractionSkipped(reason string) {
	m.InteractionsSkipped.WithLabelValues(reason).Inc()
}

// RecordClinicCreated records a new clinic insert.
func (m *Metrics) RecordClinicCreated() {
	m.ClinicsCreated.Inc()
}

// RecordSalesRepCreated records a lazily created sales rep.
func (m *Metrics) RecordSalesRepCreated() {
	m.SalesRepsCreated.Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic).Inc()
	}
}

// RecordExport records an archive export.
func (m *Metrics) RecordExport(format string, rows int) {
	m.ExportsTotal.WithLabelValues(format).Inc()
	m.ExportRows.Add(float64(rows))
}
