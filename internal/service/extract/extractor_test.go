package extract

import (
	"context"
	"errors"
	"testing"

	"crm-voice-ingress-service/internal/models"
	"crm-voice-ingress-service/internal/service/ner"
	nermock "crm-voice-ingress-service/internal/service/ner/mock"
)

// stubRecognizer returns a fixed entity list.
type stubRecognizer struct {
	entities []ner.Entity
	err      error
}

func (s *stubRecognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	return s.entities, s.err
}

func (s *stubRecognizer) Provider() string { return "stub" }

func TestExtract_SamplesGivenNegation(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"negated mention", "We talked for a while. No samples were given.", models.FlagNo},
		{"plain mention", "Left two sample kits with the receptionist.", models.FlagYes},
		{"no mention", "Discussed pricing and scheduling.", models.FlagUnknown},
		{"negation in same clause only", "no samples given, will follow up", models.FlagNo},
		{"last match wins", "Samples were offered. In the end no samples were accepted.", models.FlagNo},
	}

	ex := New(&stubRecognizer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ex.Extract(context.Background(), tt.transcript)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.SamplesGiven != tt.want {
				t.Errorf("SamplesGiven = %q, want %q", rec.SamplesGiven, tt.want)
			}
		})
	}
}

func TestExtract_FollowUpVariants(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"follow up", "Will follow up next Tuesday.", models.FlagYes},
		{"follow-up", "A follow-up is scheduled.", models.FlagYes},
		{"following up", "I'm following up after the demo.", models.FlagYes},
		{"negated", "They asked us not to follow up.", models.FlagNo},
		{"absent", "Dropped off the brochures.", models.FlagUnknown},
		{"negated sibling clause", "no samples given, will follow up", models.FlagYes},
	}

	ex := New(&stubRecognizer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ex.Extract(context.Background(), tt.transcript)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.FollowUp != tt.want {
				t.Errorf("FollowUp = %q, want %q", rec.FollowUp, tt.want)
			}
		})
	}
}

func TestExtract_StatusPriority(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"closed converted", "They are closed - converted as of today", models.StatusClosedConverted},
		{"closed not converted", "Marked closed - not converted after the trial", models.StatusClosedNotConverted},
		{"working beats new", "This is a new lead and we are working it", models.StatusWorking},
		{"new alone", "Logged a new lead for the region", models.StatusNew},
		{"default unknown", "Talked about the weather mostly", models.StatusUnknown},
	}

	ex := New(&stubRecognizer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ex.Extract(context.Background(), tt.transcript)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Status != tt.want {
				t.Errorf("Status = %q, want %q", rec.Status, tt.want)
			}
		})
	}
}

func TestExtract_ProductKeywordPriority(t *testing.T) {
	ex := New(&stubRecognizer{})

	rec, err := ex.Extract(context.Background(), "They asked about feline vaccines and also canine vaccines.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "canine vaccines" precedes "feline vaccines" in the priority list.
	if rec.ProductInterest != "canine vaccines" {
		t.Errorf("ProductInterest = %q, want %q", rec.ProductInterest, "canine vaccines")
	}

	rec, err = ex.Extract(context.Background(), "Nothing product related here.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ProductInterest != "" {
		t.Errorf("ProductInterest = %q, want empty", rec.ProductInterest)
	}
}

func TestExtract_EntityAssignment(t *testing.T) {
	ex := New(&stubRecognizer{entities: []ner.Entity{
		{Text: "Smith", Label: ner.LabelPerson},
		{Text: "Patel", Label: ner.LabelPerson},
		{Text: "Green Valley Veterinary Clinic", Label: ner.LabelOrganization},
	}})

	rec, err := ex.Extract(context.Background(), "irrelevant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.RepName != "Smith" {
		t.Errorf("RepName = %q, want Smith", rec.RepName)
	}
	if rec.ContactName != "Patel" {
		t.Errorf("ContactName = %q, want Patel", rec.ContactName)
	}
	if rec.ClinicName != "Green Valley Veterinary Clinic" {
		t.Errorf("ClinicName = %q, want Green Valley Veterinary Clinic", rec.ClinicName)
	}
}

func TestExtract_ClinicRegexFallback(t *testing.T) {
	ex := New(&stubRecognizer{}) // no ORG entities

	rec, err := ex.Extract(context.Background(), "I just left Hilltop Pet Care and it went well.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ClinicName != "Hilltop Pet Care" {
		t.Errorf("ClinicName = %q, want Hilltop Pet Care", rec.ClinicName)
	}

	rec, err = ex.Extract(context.Background(), "no clinic mentioned anywhere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ClinicName != "" {
		t.Errorf("ClinicName = %q, want empty", rec.ClinicName)
	}
}

func TestExtract_RecognizerErrorStillExtracts(t *testing.T) {
	ex := New(&stubRecognizer{err: errors.New("model unavailable")})

	rec, err := ex.Extract(context.Background(), "I stepped out of Lakeside Animal Hospital, samples left behind.")
	if err == nil {
		t.Fatal("expected recognizer error to propagate")
	}
	if rec.ClinicName != "Lakeside Animal Hospital" {
		t.Errorf("ClinicName = %q, want Lakeside Animal Hospital", rec.ClinicName)
	}
	if rec.SamplesGiven != models.FlagYes {
		t.Errorf("SamplesGiven = %q, want yes", rec.SamplesGiven)
	}
}

func TestExtract_EndToEndMemo(t *testing.T) {
	ex := New(nermock.New())

	rec, err := ex.Extract(context.Background(),
		"Dr. Smith visited Green Valley Veterinary Clinic about canine vaccines, no samples given, will follow up")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.RepName != "Smith" {
		t.Errorf("RepName = %q, want Smith", rec.RepName)
	}
	if rec.ClinicName != "Green Valley Veterinary Clinic" {
		t.Errorf("ClinicName = %q, want Green Valley Veterinary Clinic", rec.ClinicName)
	}
	if rec.ProductInterest != "canine vaccines" {
		t.Errorf("ProductInterest = %q, want canine vaccines", rec.ProductInterest)
	}
	if rec.SamplesGiven != models.FlagNo {
		t.Errorf("SamplesGiven = %q, want no", rec.SamplesGiven)
	}
	if rec.FollowUp != models.FlagYes {
		t.Errorf("FollowUp = %q, want yes", rec.FollowUp)
	}
	if rec.Status != models.StatusUnknown {
		t.Errorf("Status = %q, want unknown", rec.Status)
	}
}
