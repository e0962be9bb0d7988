// Package mock provides a rule-based entity recognizer for testing and
// offline use. It approximates the model's behavior with two patterns:
// titled or verb-adjacent capitalized names become PER entities, and
// capitalized phrases ending in an institution suffix become ORG entities.
package mock

import (
	"context"
	"regexp"
	"strings"

	"crm-voice-ingress-service/internal/service/ner"
)

var (
	personPattern = regexp.MustCompile(`\b(?:Dr\.?\s+([A-Z][a-z]+)|([A-Z][a-z]+)\s+(?:visited|stopped by|called on|spoke with|met with))`)
	orgPattern    = regexp.MustCompile(`\b((?:[A-Z][\w&',-]*\s+)+(?:Clinic|Hospital|Care|Vet|Group|Center|Ltd))\b`)
)

// Recognizer implements ner.Recognizer with regex heuristics.
type Recognizer struct{}

// New creates a new rule-based recognizer.
func New() *Recognizer {
	return &Recognizer{}
}

// Recognize scans the text for person and organization entities.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	var entities []ner.Entity
	seen := map[string]bool{}

	for _, m := range personPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name != "" && !seen["PER:"+name] {
			seen["PER:"+name] = true
			entities = append(entities, ner.Entity{Text: name, Label: ner.LabelPerson})
		}
	}

	for _, m := range orgPattern.FindAllStringSubmatch(text, -1) {
		org := strings.TrimSpace(m[1])
		if org != "" && !seen["ORG:"+org] {
			seen["ORG:"+org] = true
			entities = append(entities, ner.Entity{Text: org, Label: ner.LabelOrganization})
		}
	}

	return entities, nil
}

// Provider returns the provider name.
func (r *Recognizer) Provider() string {
	return "mock"
}
