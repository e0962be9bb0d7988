// Package models defines the data structures for the CRM voice pipeline.
package models

// Tri-state values for keyword-derived flags.
const (
	FlagYes     = "yes"
	FlagNo      = "no"
	FlagUnknown = "unknown"
)

// Lead status values, in resolution priority order.
const (
	StatusClosedConverted    = "closed - converted"
	StatusClosedNotConverted = "closed - not converted"
	StatusWorking            = "working"
	StatusNew                = "new"
	StatusUnknown            = "unknown"
)

// Clinic match classification.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
	MatchNew   = "new"
)

// ExtractedInteraction is the structured record produced by the field
// extractor for one transcript, enriched with match metadata by the
// clinic resolver. JSON keys follow the review-form contract.
type ExtractedInteraction struct {
	Filename      string `json:"filename"`
	Transcription string `json:"transcription"`

	RepName         string `json:"Rep_Name"`
	ContactName     string `json:"Contact_Name"`
	ClinicName      string `json:"Clinic_Name"`
	ProductInterest string `json:"Product_Interest"`
	SamplesGiven    string `json:"Samples_Given"`
	FollowUp        string `json:"Follow_Up"`
	Status          string `json:"Status"`
	LeadSource      string `json:"Lead_Source"`

	// Populated by the clinic resolver.
	ClinicID          string `json:"clinic_id,omitempty"`
	ClinicNameMatched string `json:"clinic_name_matched,omitempty"`
	MatchType         string `json:"match_type,omitempty"`
	MatchScore        int    `json:"match_score,omitempty"`
}

// ClinicMatch is the resolver's verdict for one candidate clinic name.
type ClinicMatch struct {
	ClinicID   string `json:"clinic_id"`
	ClinicName string `json:"clinic_name"`
	MatchType  string `json:"match_type"`
	MatchScore int    `json:"match_score,omitempty"`
}

// ClinicRef is a directory row used for name reconciliation.
type ClinicRef struct {
	ID   string
	Name string
}

// ProductRef is a catalog row used for product reconciliation.
type ProductRef struct {
	ID   string
	Name string
}

// Clinic is the persistent clinic entity.
type Clinic struct {
	ClinicID      string `json:"Clinic_ID"`
	ClinicName    string `json:"Clinic_Name"`
	ClinicType    string `json:"Clinic_Type"`
	Industry      string `json:"Industry"`
	Address       string `json:"Clinic_Address"`
	Region        string `json:"Region"`
	ParentCompany string `json:"Parent_Company"`
	ContactName   string `json:"Contact_Name"`
}

// InteractionRow is one confirmed CRM interaction as accumulated in the
// user's session and exported to the flat-file archive.
type InteractionRow struct {
	ClinicID        string `json:"Clinic_ID"`
	ContactName     string `json:"Contact_Name"`
	RepName         string `json:"Rep_Name"`
	ProductInterest string `json:"Product_Interest"`
	SamplesGiven    string `json:"Samples_Given"`
	FollowUp        string `json:"Follow_Up"`
	Status          string `json:"Status"`
	InteractionDate string `json:"Interaction_Date"`
	LeadSource      string `json:"Lead_Source"`
	LastContacted   string `json:"Last_Contacted"`
	AdditionalNotes string `json:"Additional_Notes"`
	CRMCreatedDate  string `json:"CRM_Created_Date"`
}

// ExportColumns is the fixed column set of the exported interaction file.
var ExportColumns = []string{
	"Clinic_ID", "Contact_Name", "Rep_Name", "Product_Interest",
	"Samples_Given", "Follow_Up", "Status", "Interaction_Date",
	"Lead_Source", "Last_Contacted", "Additional_Notes", "CRM_Created_Date",
}

// Values returns the row's fields in ExportColumns order.
func (r InteractionRow) Values() []string {
	return []string{
		r.ClinicID, r.ContactName, r.RepName, r.ProductInterest,
		r.SamplesGiven, r.FollowUp, r.Status, r.InteractionDate,
		r.LeadSource, r.LastContacted, r.AdditionalNotes, r.CRMCreatedDate,
	}
}

// InteractionRecorded is the event published after an interaction row is
// persisted.
type InteractionRecorded struct {
	EventType       string `json:"eventType"`
	EventID         string `json:"eventId"`
	Timestamp       int64  `json:"timestamp"`
	ClinicID        string `json:"clinicId"`
	SalesRepID      string `json:"salesRepId"`
	ProductID       string `json:"productId"`
	InteractionDate string `json:"interactionDate"`
}
