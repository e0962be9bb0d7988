// Package resolve reconciles extracted clinic and product names against the
// customer database: exact substring match first, then fuzzy partial-ratio
// similarity against a threshold.
package resolve

import (
	"context"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"crm-voice-ingress-service/internal/models"
)

// Directory is the clinic lookup surface the resolver needs.
type Directory interface {
	// FindClinicBySubstring returns the first clinic whose name contains the
	// candidate, case-insensitively, or nil when none does.
	FindClinicBySubstring(ctx context.Context, candidate string) (*models.ClinicRef, error)

	// ListClinics returns every clinic in the directory's natural order.
	ListClinics(ctx context.Context) ([]models.ClinicRef, error)
}

// Catalog is the product lookup surface for fuzzy product matching.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.ProductRef, error)
}

// Resolver performs the two-stage name reconciliation.
type Resolver struct {
	dir              Directory
	catalog          Catalog
	clinicThreshold  int
	productThreshold int
}

// New creates a Resolver with the given thresholds.
func New(dir Directory, catalog Catalog, clinicThreshold, productThreshold int) *Resolver {
	return &Resolver{
		dir:              dir,
		catalog:          catalog,
		clinicThreshold:  clinicThreshold,
		productThreshold: productThreshold,
	}
}

// ResolveClinic resolves a candidate clinic name to a directory entry.
// Returns nil when the candidate is empty or no entry scores at or above
// the clinic threshold — the caller treats that as a "new clinic".
func (r *Resolver) ResolveClinic(ctx context.Context, candidate string) (*models.ClinicMatch, error) {
	if strings.TrimSpace(candidate) == "" {
		return nil, nil
	}

	if ref, err := r.dir.FindClinicBySubstring(ctx, candidate); err != nil {
		return nil, err
	} else if ref != nil {
		return &models.ClinicMatch{
			ClinicID:   ref.ID,
			ClinicName: ref.Name,
			MatchType:  models.MatchExact,
		}, nil
	}

	clinics, err := r.dir.ListClinics(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.ClinicRef
	bestScore := 0
	lower := strings.ToLower(candidate)
	for i, c := range clinics {
		score := fuzzy.PartialRatio(lower, strings.ToLower(c.Name))
		if score > bestScore {
			bestScore = score
			best = &clinics[i]
		}
	}

	if best == nil || bestScore < r.clinicThreshold {
		return nil, nil
	}
	return &models.ClinicMatch{
		ClinicID:   best.ID,
		ClinicName: best.Name,
		MatchType:  models.MatchFuzzy,
		MatchScore: bestScore,
	}, nil
}

// ResolveProduct finds the best fuzzy product match for a partial name.
// Returns nil when nothing scores at or above the product threshold.
func (r *Resolver) ResolveProduct(ctx context.Context, candidate string) (*models.ProductRef, int, error) {
	if strings.TrimSpace(candidate) == "" {
		return nil, 0, nil
	}

	products, err := r.catalog.ListProducts(ctx)
	if err != nil {
		return nil, 0, err
	}

	var best *models.ProductRef
	bestScore := 0
	lower := strings.ToLower(candidate)
	for i, p := range products {
		score := fuzzy.PartialRatio(lower, strings.ToLower(p.Name))
		if score > bestScore {
			bestScore = score
			best = &products[i]
		}
	}

	if best == nil || bestScore < r.productThreshold {
		return nil, 0, nil
	}
	return best, bestScore, nil
}
