// Package ner defines the interface for named-entity-recognition providers.
package ner

import "context"

// Entity labels used by the field extractor.
const (
	LabelPerson       = "PER"
	LabelOrganization = "ORG"
)

// Entity is one recognized span of text.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer extracts person and organization entities from a transcript.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)

	// Provider returns the provider name for logging and metrics.
	Provider() string
}
