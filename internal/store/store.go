package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"crm-voice-ingress-service/internal/models"
	"crm-voice-ingress-service/internal/service/record"
)

// Store runs parameterized queries against the CRM schema. It satisfies
// resolve.Directory, resolve.Catalog and record.Repository, binding to
// either the pool or one transaction.
type Store struct {
	q Querier
}

// New creates a Store over the given querier.
func New(q Querier) *Store {
	return &Store{q: q}
}

// --- resolve.Directory ---

// FindClinicBySubstring runs the exact stage: case-insensitive substring
// containment against the directory's name column, first row wins.
func (s *Store) FindClinicBySubstring(ctx context.Context, candidate string) (*models.ClinicRef, error) {
	var ref models.ClinicRef
	err := s.q.QueryRow(ctx,
		`SELECT "Clinic_ID", "Clinic_Name" FROM "clinic" WHERE "Clinic_Name" ILIKE '%' || $1 || '%' LIMIT 1`,
		candidate,
	).Scan(&ref.ID, &ref.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("exact clinic match: %w", err)
	}
	return &ref, nil
}

// ListClinics returns every clinic reference in natural order.
func (s *Store) ListClinics(ctx context.Context) ([]models.ClinicRef, error) {
	rows, err := s.q.Query(ctx, `SELECT "Clinic_ID", "Clinic_Name" FROM "clinic"`)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	var out []models.ClinicRef
	for rows.Next() {
		var ref models.ClinicRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// --- resolve.Catalog ---

// ListProducts returns every product reference.
func (s *Store) ListProducts(ctx context.Context) ([]models.ProductRef, error) {
	rows, err := s.q.Query(ctx, `SELECT "Product_ID", "Product_Name" FROM "product"`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []models.ProductRef
	for rows.Next() {
		var ref models.ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// ListProductNames returns the distinct set of known product names.
func (s *Store) ListProductNames(ctx context.Context) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT DISTINCT "Product_Name" FROM "product"`)
	if err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// --- record.Repository ---

// SalesRepIDByName returns the rep's ID, or "" when unknown.
func (s *Store) SalesRepIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.q.QueryRow(ctx,
		`SELECT "Sales_Rep_ID" FROM "sales_rep" WHERE "Rep_Name" = $1`, name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sales rep by name: %w", err)
	}
	return id, nil
}

// ListSalesRepIDs returns every sales rep ID, newest first.
func (s *Store) ListSalesRepIDs(ctx context.Context) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT "Sales_Rep_ID" FROM "sales_rep" ORDER BY "Sales_Rep_ID" DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sales rep ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// InsertSalesRep creates a sales rep row.
func (s *Store) InsertSalesRep(ctx context.Context, id, name string) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO "sales_rep" ("Sales_Rep_ID", "Rep_Name") VALUES ($1, $2)`, id, name)
	if err != nil {
		return fmt.Errorf("insert sales rep: %w", err)
	}
	return nil
}

// ProductIDByName returns the product's ID by exact case-insensitive match.
func (s *Store) ProductIDByName(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	var id string
	err := s.q.QueryRow(ctx,
		`SELECT "Product_ID" FROM "product" WHERE LOWER("Product_Name") = LOWER($1)`, name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("product by name: %w", err)
	}
	return id, nil
}

// ClinicContactName returns the clinic's directory contact, or "".
func (s *Store) ClinicContactName(ctx context.Context, clinicID string) (string, error) {
	var contact string
	err := s.q.QueryRow(ctx,
		`SELECT "Contact_Name" FROM "clinic" WHERE "Clinic_ID" = $1`, clinicID,
	).Scan(&contact)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("clinic contact: %w", err)
	}
	return contact, nil
}

// InteractionExists runs the composite-key duplicate check at day precision.
func (s *Store) InteractionExists(ctx context.Context, clinicID, salesRepID, productID string, date time.Time) (bool, error) {
	var count int
	err := s.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM "crm_interaction"
		 WHERE "Clinic_ID" = $1 AND "Sales_Rep_ID" = $2 AND "Product_ID" = $3
		   AND "Interaction_Date"::date = $4::date`,
		clinicID, salesRepID, productID, date,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("duplicate check: %w", err)
	}
	return count > 0, nil
}

// InsertInteraction inserts one interaction row.
func (s *Store) InsertInteraction(ctx context.Context, row record.InteractionInsert) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO "crm_interaction" (
			"Clinic_ID", "Contact_Name", "Sales_Rep_ID", "Product_ID",
			"Samples_Given", "Follow_Up", "Status", "Interaction_Date",
			"Additional_Notes", "CRM_Created_Date", "Lead_Source", "Last_Contacted"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		row.ClinicID, row.ContactName, row.SalesRepID, row.ProductID,
		row.SamplesGiven, row.FollowUp, row.Status, row.InteractionDate,
		row.AdditionalNotes, row.CreatedAt, row.LeadSource, row.LastContacted,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// --- clinic creation ---

// ListClinicIDs returns every identifier matching the C<digits> pattern,
// the scoped input for clinic ID allocation.
func (s *Store) ListClinicIDs(ctx context.Context) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT "Clinic_ID" FROM "clinic" WHERE "Clinic_ID" ~ '^C[0-9]+$'`)
	if err != nil {
		return nil, fmt.Errorf("list clinic ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetClinic returns the full clinic row, or nil when absent.
func (s *Store) GetClinic(ctx context.Context, clinicID string) (*models.Clinic, error) {
	var c models.Clinic
	err := s.q.QueryRow(ctx,
		`SELECT "Clinic_ID", "Clinic_Name", "Clinic_Type", "Industry",
		        "Clinic_Address", "Region", "Parent_Company", "Contact_Name"
		 FROM "clinic" WHERE "Clinic_ID" = $1`, clinicID,
	).Scan(&c.ClinicID, &c.ClinicName, &c.ClinicType, &c.Industry,
		&c.Address, &c.Region, &c.ParentCompany, &c.ContactName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &c, nil
}

// InsertClinic creates a clinic row.
func (s *Store) InsertClinic(ctx context.Context, c models.Clinic) error {
	_, err := s.q.Exec(ctx,
		`INSERT INTO "clinic" (
			"Clinic_ID", "Clinic_Name", "Clinic_Type", "Industry",
			"Clinic_Address", "Region", "Parent_Company", "Contact_Name"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ClinicID, c.ClinicName, c.ClinicType, c.Industry,
		c.Address, c.Region, c.ParentCompany, c.ContactName,
	)
	if err != nil {
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}
