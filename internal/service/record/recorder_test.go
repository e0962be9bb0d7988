package record

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"crm-voice-ingress-service/internal/observability/metrics"
)

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	reps     map[string]string // name -> id
	products map[string]string // lower name -> id
	contacts map[string]string // clinic id -> contact
	inserted []InteractionInsert
	failOn   string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reps:     map[string]string{"Alice": "SR001"},
		products: map[string]string{"canine vaccines": "P001"},
		contacts: map[string]string{"C001": "Dr. Patel"},
	}
}

func (f *fakeRepo) SalesRepIDByName(ctx context.Context, name string) (string, error) {
	if f.failOn == "SalesRepIDByName" {
		return "", errors.New("db down")
	}
	return f.reps[name], nil
}

func (f *fakeRepo) ListSalesRepIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.reps))
	for _, id := range f.reps {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRepo) InsertSalesRep(ctx context.Context, id, name string) error {
	f.reps[name] = id
	return nil
}

func (f *fakeRepo) ProductIDByName(ctx context.Context, name string) (string, error) {
	return f.products[strings.ToLower(name)], nil
}

func (f *fakeRepo) ClinicContactName(ctx context.Context, clinicID string) (string, error) {
	return f.contacts[clinicID], nil
}

func (f *fakeRepo) InteractionExists(ctx context.Context, clinicID, salesRepID, productID string, date time.Time) (bool, error) {
	for _, row := range f.inserted {
		if row.ClinicID == clinicID && row.SalesRepID == salesRepID &&
			row.ProductID == productID && sameDay(row.InteractionDate, date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) InsertInteraction(ctx context.Context, row InteractionInsert) error {
	if f.failOn == "InsertInteraction" {
		return errors.New("constraint violation")
	}
	f.inserted = append(f.inserted, row)
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func newTestRecorder() *Recorder {
	r := New(metrics.DefaultMetrics)
	r.Now = func() time.Time {
		return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	return r
}

func TestRecord_InsertsInteraction(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder()

	res, err := r.Record(context.Background(), repo, "C001", Fields{
		RepName:         "Alice",
		ProductInterest: "Canine Vaccines",
		SamplesGiven:    "no",
		FollowUp:        "yes",
		Status:          "working",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Skipped || res.Duplicate {
		t.Fatalf("expected plain insert, got %+v", res)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 inserted row, got %d", len(repo.inserted))
	}

	row := repo.inserted[0]
	if row.SalesRepID != "SR001" {
		t.Errorf("SalesRepID = %q, want SR001", row.SalesRepID)
	}
	if row.ProductID != "P001" {
		t.Errorf("ProductID = %q, want P001", row.ProductID)
	}
	// Contact defaults from the clinic directory when extraction had none.
	if row.ContactName != "Dr. Patel" {
		t.Errorf("ContactName = %q, want Dr. Patel", row.ContactName)
	}
	// Dates default to the clock's day.
	if !sameDay(row.InteractionDate, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("InteractionDate = %v, want 2025-03-14", row.InteractionDate)
	}
	if !row.LastContacted.Equal(row.InteractionDate) {
		t.Errorf("LastContacted = %v, want interaction date", row.LastContacted)
	}
}

func TestRecord_LazySalesRepCreation(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder()

	res, err := r.Record(context.Background(), repo, "C001", Fields{
		RepName:         "Bob",
		ProductInterest: "canine vaccines",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SalesRepID != "SR002" {
		t.Errorf("SalesRepID = %q, want SR002", res.SalesRepID)
	}
	if repo.reps["Bob"] != "SR002" {
		t.Errorf("rep not persisted: %v", repo.reps)
	}
}

func TestRecord_UnknownProductSkips(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder()

	res, err := r.Record(context.Background(), repo, "C001", Fields{
		RepName:         "Alice",
		ProductInterest: "quantum flux capacitors",
	})
	if err != nil {
		t.Fatalf("skip must not be an error: %v", err)
	}
	if !res.Skipped || res.SkipReason != SkipUnknownProduct {
		t.Fatalf("expected unknown_product skip, got %+v", res)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("expected no insert, got %d rows", len(repo.inserted))
	}
}

func TestRecord_DuplicateIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder()

	fields := Fields{
		RepName:         "Alice",
		ProductInterest: "canine vaccines",
		InteractionDate: "2025-03-10",
	}

	first, err := r.Record(context.Background(), repo, "C001", fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Record(context.Background(), repo, "C001", fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !second.Duplicate {
		t.Fatal("expected duplicate result on re-submission")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected exactly 1 inserted row, got %d", len(repo.inserted))
	}
	if !second.InteractionDate.Equal(first.InteractionDate) {
		t.Errorf("duplicate InteractionDate = %v, want %v", second.InteractionDate, first.InteractionDate)
	}
}

func TestRecord_ExplicitContactNameWins(t *testing.T) {
	repo := newFakeRepo()
	r := newTestRecorder()

	res, err := r.Record(context.Background(), repo, "C001", Fields{
		RepName:         "Alice",
		ContactName:     "Front Desk",
		ProductInterest: "canine vaccines",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContactName != "Front Desk" {
		t.Errorf("ContactName = %q, want Front Desk", res.ContactName)
	}
}

func TestRecord_RepositoryErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.failOn = "InsertInteraction"
	r := newTestRecorder()

	_, err := r.Record(context.Background(), repo, "C001", Fields{
		RepName:         "Alice",
		ProductInterest: "canine vaccines",
	})
	if err == nil {
		t.Fatal("expected insert error to propagate")
	}
}
