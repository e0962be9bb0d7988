// Package http exposes the review workflow over REST: upload a batch of
// voice memos, confirm reviewed interactions, create new clinics and export
// the session's confirmed rows.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"crm-voice-ingress-service/internal/events"
	"crm-voice-ingress-service/internal/models"
	"crm-voice-ingress-service/internal/observability/logging"
	"crm-voice-ingress-service/internal/observability/metrics"
	"crm-voice-ingress-service/internal/schema"
	"crm-voice-ingress-service/internal/service/export"
	"crm-voice-ingress-service/internal/service/idgen"
	"crm-voice-ingress-service/internal/service/ingest"
	"crm-voice-ingress-service/internal/service/record"
	"crm-voice-ingress-service/internal/session"
	"crm-voice-ingress-service/internal/store"
)

const (
	maxUploadMemory = 64 << 20 // 64MB

	dateLayout      = "2006-01-02"
	createdAtLayout = "2006-01-02 15:04:05"
)

// Repository is the per-transaction persistence surface the handlers need.
type Repository interface {
	record.Repository

	GetClinic(ctx context.Context, clinicID string) (*models.Clinic, error)
	ListClinicIDs(ctx context.Context) ([]string, error)
	InsertClinic(ctx context.Context, c models.Clinic) error
}

// Datastore is the handlers' view of the database.
type Datastore interface {
	ListProductNames(ctx context.Context) ([]string, error)

	// InTx runs fn inside one transaction; any error rolls the batch back.
	InTx(ctx context.Context, fn func(repo Repository) error) error
}

// SQLDatastore adapts store.DB to the Datastore interface.
type SQLDatastore struct {
	db *store.DB
}

// NewSQLDatastore wraps a connection pool.
func NewSQLDatastore(db *store.DB) *SQLDatastore {
	return &SQLDatastore{db: db}
}

func (d *SQLDatastore) ListProductNames(ctx context.Context) ([]string, error) {
	return store.New(d.db).ListProductNames(ctx)
}

func (d *SQLDatastore) InTx(ctx context.Context, fn func(repo Repository) error) error {
	return d.db.WithTx(ctx, func(s *store.Store) error {
		return fn(s)
	})
}

// Handlers holds the request handlers' dependencies.
type Handlers struct {
	data      Datastore
	processor *ingest.Processor
	recorder  *record.Recorder
	sessions  *session.Store
	publisher *events.Publisher
	metrics   *metrics.Metrics
}

// NewHandlers creates the handler set.
func NewHandlers(
	data Datastore,
	processor *ingest.Processor,
	recorder *record.Recorder,
	sessions *session.Store,
	publisher *events.Publisher,
) *Handlers {
	return &Handlers{
		data:      data,
		processor: processor,
		recorder:  recorder,
		sessions:  sessions,
		publisher: publisher,
		metrics:   metrics.DefaultMetrics,
	}
}

type uploadResponse struct {
	OldClients []models.ExtractedInteraction `json:"old_clients"`
	NewClients []models.ExtractedInteraction `json:"new_clients"`
	Skipped    []string                      `json:"skipped"`
	Dropped    []string                      `json:"dropped"`
}

// handleUploads accepts a multipart batch of audio files and returns the
// review candidates, split by whether the clinic resolved to the directory.
func (h *Handlers) handleUploads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	var uploads []ingest.Upload
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("opening %s: %v", header.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", header.Filename, err))
			return
		}
		uploads = append(uploads, ingest.Upload{Filename: header.Filename, Data: data})
	}
	if len(uploads) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	res, err := h.processor.ProcessBatch(r.Context(), uploads)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "batch processing failed")
		return
	}

	resp := uploadResponse{
		OldClients: res.OldClients,
		NewClients: res.NewClients,
		Skipped:    res.Skipped,
		Dropped:    res.Dropped,
	}
	if resp.OldClients == nil {
		resp.OldClients = []models.ExtractedInteraction{}
	}
	if resp.NewClients == nil {
		resp.NewClients = []models.ExtractedInteraction{}
	}
	if resp.Skipped == nil {
		resp.Skipped = []string{}
	}
	if resp.Dropped == nil {
		resp.Dropped = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProducts returns the distinct product names for the review form.
func (h *Handlers) handleProducts(w http.ResponseWriter, r *http.Request) {
	names, err := h.data.ListProductNames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Listing products failed")
		writeError(w, http.StatusInternalServerError, "listing products failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

type submitExistingResponse struct {
	Recorded   int                           `json:"recorded"`
	Duplicates int                           `json:"duplicates"`
	Skipped    int                           `json:"skipped"`
	Clinics    []models.Clinic               `json:"clinics"`
	NewClients []models.ExtractedInteraction `json:"new_clients"`
}

// handleSubmitExisting records the reviewed batch for known clinics and
// returns the confirmed-new clinics for the follow-up creation step.
// Form fields are indexed from 0: clinic_decision_0, clinic_id_0, ...
func (h *Handlers) handleSubmitExisting(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count < 0 {
		writeError(w, http.StatusBadRequest, "invalid count")
		return
	}

	var newClientsAll []models.ExtractedInteraction
	if raw := r.FormValue("new_clients_json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &newClientsAll); err != nil {
			writeError(w, http.StatusBadRequest, "invalid new_clients_json")
			return
		}
	}

	type batchKey struct {
		clinicID string
		product  string
		rep      string
	}
	processed := map[batchKey]bool{}

	var (
		rows        []models.InteractionRow
		pending     []models.InteractionRecorded
		clinics     []models.Clinic
		seenClinics = map[string]bool{}
		duplicates  int
		skipped     int
	)

	err = h.data.InTx(r.Context(), func(repo Repository) error {
		for i := 0; i < count; i++ {
			decision := r.FormValue(indexed("clinic_decision", i))
			if decision == "new" {
				continue
			}

			clinicID := r.FormValue(indexed("clinic_id", i))
			fields := record.Fields{
				RepName:         r.FormValue(indexed("rep_name", i)),
				ProductInterest: r.FormValue(indexed("product_interest", i)),
				SamplesGiven:    r.FormValue(indexed("samples_given", i)),
				FollowUp:        r.FormValue(indexed("follow_up", i)),
				Status:          r.FormValue(indexed("status", i)),
				AdditionalNotes: r.FormValue(indexed("additional_notes", i)),
				LeadSource:      r.FormValue(indexed("lead_source", i)),
				LastContacted:   r.FormValue(indexed("last_contacted", i)),
			}

			key := batchKey{
				clinicID: clinicID,
				product:  strings.ToLower(strings.TrimSpace(fields.ProductInterest)),
				rep:      strings.ToLower(strings.TrimSpace(fields.RepName)),
			}
			if processed[key] {
				continue
			}
			processed[key] = true

			result, err := h.recorder.Record(r.Context(), repo, clinicID, fields)
			if err != nil {
				return fmt.Errorf("recording interaction for %s: %w", clinicID, err)
			}
			if result.Skipped {
				skipped++
				continue
			}
			if result.Duplicate {
				duplicates++
			} else {
				pending = append(pending, h.recordedEvent(clinicID, result))
			}

			if !seenClinics[clinicID] {
				seenClinics[clinicID] = true
				if clinic, err := repo.GetClinic(r.Context(), clinicID); err != nil {
					return err
				} else if clinic != nil {
					clinics = append(clinics, *clinic)
				}
			}

			rows = append(rows, models.InteractionRow{
				ClinicID:        clinicID,
				ContactName:     result.ContactName,
				RepName:         fields.RepName,
				ProductInterest: fields.ProductInterest,
				SamplesGiven:    fields.SamplesGiven,
				FollowUp:        fields.FollowUp,
				Status:          fields.Status,
				InteractionDate: result.InteractionDate.Format(dateLayout),
				LeadSource:      fields.LeadSource,
				LastContacted:   fields.LastContacted,
				AdditionalNotes: fields.AdditionalNotes,
				CRMCreatedDate:  result.CreatedAt.Format(createdAtLayout),
			})
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Existing-clinic batch failed, rolled back")
		writeError(w, http.StatusInternalServerError, "recording batch failed")
		return
	}

	h.publishRecorded(r.Context(), pending)

	if err := h.sessions.Append(w, r, rows); err != nil {
		log.Error().Err(err).Msg("Appending interactions to session failed")
	}

	confirmed := mergeConfirmedNew(r, count, newClientsAll)
	if clinics == nil {
		clinics = []models.Clinic{}
	}
	writeJSON(w, http.StatusOK, submitExistingResponse{
		Recorded:   len(rows) - duplicates,
		Duplicates: duplicates,
		Skipped:    skipped,
		Clinics:    clinics,
		NewClients: confirmed,
	})
}

// mergeConfirmedNew collects the clinics confirmed as new from both sources:
// per-index "new" decisions, then records the resolver already flagged as
// new. Overlap is removed by case-insensitive clinic name, first entry wins.
func mergeConfirmedNew(r *http.Request, count int, newClientsAll []models.ExtractedInteraction) []models.ExtractedInteraction {
	var confirmed []models.ExtractedInteraction
	for i := 0; i < count; i++ {
		if r.FormValue(indexed("clinic_decision", i)) == "new" && i < len(newClientsAll) {
			confirmed = append(confirmed, newClientsAll[i])
		}
	}
	for _, client := range newClientsAll {
		if client.MatchType == models.MatchNew {
			confirmed = append(confirmed, client)
		}
	}

	seen := map[string]bool{}
	unique := []models.ExtractedInteraction{}
	for _, client := range confirmed {
		name := strings.ToLower(client.ClinicName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, client)
	}
	return unique
}

type newClinicsResponse struct {
	ClinicIDs []string `json:"clinic_ids"`
	Recorded  int      `json:"recorded"`
	Skipped   int      `json:"skipped"`
}

// handleSubmitNewClinics creates clinics with freshly allocated IDs and
// records their first interactions. Form fields are indexed from 1:
// clinic_name_1, rep_name_1, ...
func (h *Handlers) handleSubmitNewClinics(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	count, err := strconv.Atoi(r.FormValue("count"))
	if err != nil || count < 0 {
		writeError(w, http.StatusBadRequest, "invalid count")
		return
	}

	var (
		rows      []models.InteractionRow
		pending   []models.InteractionRecorded
		clinicIDs []string
		skipped   int
	)

	err = h.data.InTx(r.Context(), func(repo Repository) error {
		for i := 1; i <= count; i++ {
			existing, err := repo.ListClinicIDs(r.Context())
			if err != nil {
				return err
			}
			clinicID := idgen.Next("C", existing)

			clinic := models.Clinic{
				ClinicID:      clinicID,
				ClinicName:    r.FormValue(indexed("clinic_name", i)),
				ClinicType:    r.FormValue(indexed("clinic_type", i)),
				Industry:      r.FormValue(indexed("industry", i)),
				Address:       r.FormValue(indexed("address", i)),
				Region:        r.FormValue(indexed("region", i)),
				ParentCompany: r.FormValue(indexed("parent_company", i)),
				ContactName:   r.FormValue(indexed("contact_name", i)),
			}
			if err := repo.InsertClinic(r.Context(), clinic); err != nil {
				return fmt.Errorf("creating clinic %s: %w", clinicID, err)
			}
			h.metrics.RecordClinicCreated()
			clinicIDs = append(clinicIDs, clinicID)
			clinicLogger := logging.WithClinic(clinicID, clinic.ClinicName)
			clinicLogger.Info().Msg("Clinic created")

			fields := record.Fields{
				RepName:         r.FormValue(indexed("rep_name", i)),
				ContactName:     clinic.ContactName,
				ProductInterest: r.FormValue(indexed("product_name", i)),
				SamplesGiven:    r.FormValue(indexed("samples_given", i)),
				FollowUp:        r.FormValue(indexed("follow_up", i)),
				Status:          r.FormValue(indexed("status", i)),
				AdditionalNotes: r.FormValue(indexed("additional_notes", i)),
				LeadSource:      r.FormValue(indexed("lead_source", i)),
				InteractionDate: r.FormValue(indexed("interaction_date", i)),
				LastContacted:   r.FormValue(indexed("last_contacted", i)),
			}

			result, err := h.recorder.Record(r.Context(), repo, clinicID, fields)
			if err != nil {
				return fmt.Errorf("recording interaction for %s: %w", clinicID, err)
			}
			if result.Skipped {
				skipped++
				continue
			}
			if !result.Duplicate {
				pending = append(pending, h.recordedEvent(clinicID, result))
			}

			rows = append(rows, models.InteractionRow{
				ClinicID:        clinicID,
				ContactName:     clinic.ContactName,
				RepName:         fields.RepName,
				ProductInterest: fields.ProductInterest,
				SamplesGiven:    fields.SamplesGiven,
				FollowUp:        fields.FollowUp,
				Status:          fields.Status,
				InteractionDate: result.InteractionDate.Format(dateLayout),
				LeadSource:      fields.LeadSource,
				LastContacted:   fields.LastContacted,
				AdditionalNotes: fields.AdditionalNotes,
				CRMCreatedDate:  result.CreatedAt.Format(createdAtLayout),
			})
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("New-clinic batch failed, rolled back")
		writeError(w, http.StatusInternalServerError, "creating clinics failed")
		return
	}

	h.publishRecorded(r.Context(), pending)

	if err := h.sessions.Append(w, r, rows); err != nil {
		log.Error().Err(err).Msg("Appending interactions to session failed")
	}

	if clinicIDs == nil {
		clinicIDs = []string{}
	}
	writeJSON(w, http.StatusOK, newClinicsResponse{
		ClinicIDs: clinicIDs,
		Recorded:  len(rows),
		Skipped:   skipped,
	})
}

// handleExport streams the session's confirmed interactions as an archive
// and clears the session. Format defaults to a zipped CSV; xlsx is the
// spreadsheet variant.
func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	rows := h.sessions.Peek(r)
	if len(rows) == 0 {
		writeError(w, http.StatusBadRequest, "no interaction data available")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "zip"
	}

	var (
		data        []byte
		err         error
		contentType string
		filename    string
	)
	switch format {
	case "zip":
		data, err = export.BuildZip(rows)
		contentType = "application/zip"
		filename = export.ZipName
	case "xlsx":
		data, err = export.BuildXLSX(rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = export.XLSXName
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("Building export archive failed")
		writeError(w, http.StatusInternalServerError, "building archive failed")
		return
	}

	// Clear only after the archive built successfully.
	h.sessions.Take(r)
	h.metrics.RecordExport(format, len(rows))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// recordedEvent builds the event for one persisted interaction.
func (h *Handlers) recordedEvent(clinicID string, result record.Result) models.InteractionRecorded {
	return models.InteractionRecorded{
		EventType:       schema.EventTypeInteractionRecorded,
		EventID:         uuid.New().String(),
		Timestamp:       time.Now().UnixMilli(),
		ClinicID:        clinicID,
		SalesRepID:      result.SalesRepID,
		ProductID:       result.ProductID,
		InteractionDate: result.InteractionDate.Format(dateLayout),
	}
}

// publishRecorded emits events for committed rows. Publish failures are
// logged, not surfaced: the rows are already durable.
func (h *Handlers) publishRecorded(ctx context.Context, pending []models.InteractionRecorded) {
	for _, event := range pending {
		if err := h.publisher.PublishInteractionRecorded(ctx, event); err != nil {
			log.Error().Err(err).Str("clinicId", event.ClinicID).Msg("Publishing interaction event failed")
		}
	}
}

func indexed(field string, i int) string {
	return fmt.Sprintf("%s_%d", field, i)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Encoding response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
