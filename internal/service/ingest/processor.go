package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"crm-voice-ingress-service/internal/models"
	"crm-voice-ingress-service/internal/observability/logging"
	"crm-voice-ingress-service/internal/observability/metrics"
	"crm-voice-ingress-service/internal/service/extract"
	"crm-voice-ingress-service/internal/service/stt"
)

// allowedExtensions is the audio format allow-list. Anything else is
// skipped, not rejected: one bad file must not fail the batch.
var allowedExtensions = map[string]bool{
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// ClinicResolver reconciles an extracted clinic name against the directory.
type ClinicResolver interface {
	ResolveClinic(ctx context.Context, candidate string) (*models.ClinicMatch, error)
}

// Upload is one audio file received in a batch.
type Upload struct {
	Filename string
	Data     []byte
}

// Result partitions a processed batch for review: records that resolved to
// an existing clinic, records whose clinic is unknown, and the clips that
// never reached review.
type Result struct {
	OldClients []models.ExtractedInteraction
	NewClients []models.ExtractedInteraction
	Skipped    []string
	Dropped    []string
}

// Processor runs the clip pipeline for uploaded audio batches.
type Processor struct {
	transcriber stt.Transcriber
	extractor   *extract.Extractor
	resolver    ClinicResolver
	uploadDir   string
	metrics     *metrics.Metrics
}

// NewProcessor creates a Processor that stores clips under uploadDir.
func NewProcessor(transcriber stt.Transcriber, extractor *extract.Extractor, resolver ClinicResolver, uploadDir string) *Processor {
	return &Processor{
		transcriber: transcriber,
		extractor:   extractor,
		resolver:    resolver,
		uploadDir:   uploadDir,
		metrics:     metrics.DefaultMetrics,
	}
}

// ProcessBatch runs every upload through the pipeline. Per-clip failures
// drop that clip and continue; the returned error is reserved for failures
// that invalidate the whole batch (none today).
func (p *Processor) ProcessBatch(ctx context.Context, uploads []Upload) (Result, error) {
	var res Result
	for _, up := range uploads {
		ext := strings.ToLower(filepath.Ext(up.Filename))
		if !allowedExtensions[ext] {
			log.Warn().Str("filename", up.Filename).Str("ext", ext).Msg("Unsupported audio format, skipping")
			p.metrics.RecordUploadSkipped("unsupported_format")
			res.Skipped = append(res.Skipped, up.Filename)
			continue
		}

		rec, ok := p.processClip(ctx, up)
		if !ok {
			res.Dropped = append(res.Dropped, up.Filename)
			continue
		}

		p.metrics.RecordClinicMatch(rec.MatchType)
		if rec.MatchType == models.MatchNew {
			res.NewClients = append(res.NewClients, rec)
		} else {
			res.OldClients = append(res.OldClients, rec)
		}
	}
	return res, nil
}

// processClip runs one clip to a review candidate. Returns ok=false when the
// clip was dropped at any stage.
func (p *Processor) processClip(ctx context.Context, up Upload) (models.ExtractedInteraction, bool) {
	lc := NewLifecycle(up.Filename)
	logger := logging.WithUpload(up.Filename)

	if err := p.saveClip(up); err != nil {
		logger.Error().Err(err).Msg("Failed to persist clip")
		lc.Drop()
		p.metrics.RecordClipDropped("save_failed")
		return models.ExtractedInteraction{}, false
	}
	p.metrics.RecordUpload(int64(len(up.Data)))

	start := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, up.Filename, up.Data)
	p.metrics.RecordTranscription(p.transcriber.Provider(), err, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Str("provider", p.transcriber.Provider()).Msg("Transcription failed, clip dropped")
		lc.Drop()
		p.metrics.RecordClipDropped("transcription_failed")
		return models.ExtractedInteraction{}, false
	}
	if err := lc.MarkTranscribed(); err != nil {
		return models.ExtractedInteraction{}, false
	}

	rec, err := p.extractor.Extract(ctx, transcript)
	if err != nil {
		// Recognizer failure is non-fatal: the regex fallbacks still ran.
		logger.Warn().Err(err).Msg("Entity recognition failed, using fallback extraction")
	}
	rec.Filename = up.Filename
	p.metrics.RecordExtraction()
	if err := lc.MarkExtracted(); err != nil {
		return models.ExtractedInteraction{}, false
	}

	if rec.ClinicName == "" {
		logger.Info().Msg("No clinic name extracted, clip dropped")
		lc.Drop()
		p.metrics.RecordClipDropped("no_clinic_name")
		return models.ExtractedInteraction{}, false
	}

	match, err := p.resolver.ResolveClinic(ctx, rec.ClinicName)
	if err != nil {
		logger.Error().Err(err).Msg("Clinic resolution failed, clip dropped")
		lc.Drop()
		p.metrics.RecordClipDropped("resolution_failed")
		return models.ExtractedInteraction{}, false
	}
	if match != nil {
		rec.ClinicID = match.ClinicID
		rec.ClinicNameMatched = match.ClinicName
		rec.MatchType = match.MatchType
		rec.MatchScore = match.MatchScore
	} else {
		rec.MatchType = models.MatchNew
	}
	if err := lc.MarkResolved(); err != nil {
		return models.ExtractedInteraction{}, false
	}

	logger.Info().
		Str("clinic", rec.ClinicName).
		Str("matchType", rec.MatchType).
		Str("state", lc.State().String()).
		Msg("Clip processed")
	return rec, true
}

// saveClip persists the raw audio under a collision-proof name.
func (p *Processor) saveClip(up Upload) error {
	name := uuid.New().String() + "-" + filepath.Base(up.Filename)
	path := filepath.Join(p.uploadDir, name)
	if err := os.WriteFile(path, up.Data, 0o644); err != nil {
		return fmt.Errorf("write clip: %w", err)
	}
	return nil
}
