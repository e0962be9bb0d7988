// Package record persists confirmed CRM interactions. It de-duplicates on
// the composite natural key (clinic, sales rep, product, interaction date),
// creates sales reps lazily and skips interactions for unknown products
// without failing the batch.
package record

import (
	"context"
	"fmt"
	"time"

	"crm-voice-ingress-service/internal/observability/metrics"
	"crm-voice-ingress-service/internal/service/idgen"
)

const dateLayout = "2006-01-02"

// Skip reasons reported in Result.SkipReason.
const (
	SkipUnknownProduct = "unknown_product"
)

// Repository is the persistence surface the recorder needs. Implementations
// bind to the caller's transaction so a failing batch rolls back as one.
type Repository interface {
	// SalesRepIDByName returns the rep's ID, or "" when the name is unknown.
	SalesRepIDByName(ctx context.Context, name string) (string, error)

	// ListSalesRepIDs returns every sales rep ID, newest first.
	ListSalesRepIDs(ctx context.Context) ([]string, error)

	// InsertSalesRep creates a sales rep row.
	InsertSalesRep(ctx context.Context, id, name string) error

	// ProductIDByName returns the product's ID by exact case-insensitive
	// name match, or "" when the product is unknown.
	ProductIDByName(ctx context.Context, name string) (string, error)

	// ClinicContactName returns the clinic's directory contact, or "".
	ClinicContactName(ctx context.Context, clinicID string) (string, error)

	// InteractionExists reports whether a row with the composite key
	// already exists, comparing the interaction date at day precision.
	InteractionExists(ctx context.Context, clinicID, salesRepID, productID string, date time.Time) (bool, error)

	// InsertInteraction inserts one interaction row.
	InsertInteraction(ctx context.Context, row InteractionInsert) error
}

// InteractionInsert is the full row handed to the repository.
type InteractionInsert struct {
	ClinicID        string
	ContactName     string
	SalesRepID      string
	ProductID       string
	SamplesGiven    string
	FollowUp        string
	Status          string
	AdditionalNotes string
	LeadSource      string
	InteractionDate time.Time
	LastContacted   time.Time
	CreatedAt       time.Time
}

// Fields carries the confirmed values for one interaction. Date fields use
// YYYY-MM-DD; empty dates default to today (interaction) and to the
// interaction date (last contacted).
type Fields struct {
	RepName         string
	ContactName     string
	ProductInterest string
	SamplesGiven    string
	FollowUp        string
	Status          string
	AdditionalNotes string
	LeadSource      string
	InteractionDate string
	LastContacted   string
}

// Result reports what happened to one record operation.
type Result struct {
	SalesRepID      string
	ProductID       string
	ContactName     string
	InteractionDate time.Time
	CreatedAt       time.Time
	Duplicate       bool
	Skipped         bool
	SkipReason      string
}

// Recorder persists interactions through a Repository.
type Recorder struct {
	metrics *metrics.Metrics

	// Now is the clock used for CRM_Created_Date; replaced in tests.
	Now func() time.Time
}

// New creates a Recorder.
func New(m *metrics.Metrics) *Recorder {
	return &Recorder{metrics: m, Now: time.Now}
}

// Record resolves the sales rep and product, fills the contact name from the
// clinic directory when absent, runs the duplicate check and inserts the row.
// An unknown product yields a skipped no-op result, not an error. A duplicate
// yields the composite key's dates without a second insert.
func (r *Recorder) Record(ctx context.Context, repo Repository, clinicID string, fields Fields) (Result, error) {
	createdAt := r.Now()
	interactionDate := parseDateOr(fields.InteractionDate, createdAt)
	lastContacted := parseDateOr(fields.LastContacted, interactionDate)

	salesRepID, err := r.ensureSalesRep(ctx, repo, fields.RepName)
	if err != nil {
		return Result{}, err
	}

	productID, err := repo.ProductIDByName(ctx, fields.ProductInterest)
	if err != nil {
		return Result{}, err
	}
	if productID == "" {
		r.metrics.RecordInteractionSkipped(SkipUnknownProduct)
		return Result{Skipped: true, SkipReason: SkipUnknownProduct, SalesRepID: salesRepID}, nil
	}

	contactName := fields.ContactName
	if contactName == "" {
		if contactName, err = repo.ClinicContactName(ctx, clinicID); err != nil {
			return Result{}, err
		}
	}

	exists, err := repo.InteractionExists(ctx, clinicID, salesRepID, productID, interactionDate)
	if err != nil {
		return Result{}, err
	}
	if exists {
		r.metrics.RecordInteractionDuplicate()
		return Result{
			SalesRepID:      salesRepID,
			ProductID:       productID,
			ContactName:     contactName,
			InteractionDate: interactionDate,
			CreatedAt:       createdAt,
			Duplicate:       true,
		}, nil
	}

	err = repo.InsertInteraction(ctx, InteractionInsert{
		ClinicID:        clinicID,
		ContactName:     contactName,
		SalesRepID:      salesRepID,
		ProductID:       productID,
		SamplesGiven:    fields.SamplesGiven,
		FollowUp:        fields.FollowUp,
		Status:          fields.Status,
		AdditionalNotes: fields.AdditionalNotes,
		LeadSource:      fields.LeadSource,
		InteractionDate: interactionDate,
		LastContacted:   lastContacted,
		CreatedAt:       createdAt,
	})
	if err != nil {
		return Result{}, fmt.Errorf("insert interaction: %w", err)
	}

	r.metrics.RecordInteraction()
	return Result{
		SalesRepID:      salesRepID,
		ProductID:       productID,
		ContactName:     contactName,
		InteractionDate: interactionDate,
		CreatedAt:       createdAt,
	}, nil
}

// ensureSalesRep resolves a rep name to an ID, allocating one lazily.
func (r *Recorder) ensureSalesRep(ctx context.Context, repo Repository, name string) (string, error) {
	id, err := repo.SalesRepIDByName(ctx, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	existing, err := repo.ListSalesRepIDs(ctx)
	if err != nil {
		return "", err
	}
	id = idgen.Next("SR", existing)
	if err := repo.InsertSalesRep(ctx, id, name); err != nil {
		return "", fmt.Errorf("insert sales rep: %w", err)
	}
	r.metrics.RecordSalesRepCreated()
	return id, nil
}

// parseDateOr parses a YYYY-MM-DD value, truncating the fallback to a day
// when the value is empty or malformed.
func parseDateOr(value string, fallback time.Time) time.Time {
	if value != "" {
		if d, err := time.Parse(dateLayout, value); err == nil {
			return d
		}
	}
	return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, fallback.Location())
}
