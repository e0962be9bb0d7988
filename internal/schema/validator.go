// Package schema validates outbound events before they are published.
package schema

import (
	"errors"
	"fmt"
	"time"

	"crm-voice-ingress-service/internal/models"
)

// EventTypeInteractionRecorded is the only event type this service emits.
const EventTypeInteractionRecorded = "crm.interaction.recorded"

var errUnknownEventType = errors.New("unknown event type")

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate checks the event's required fields and date format. Events that
// fail validation must not reach the broker.
func (v *Validator) Validate(event models.InteractionRecorded) error {
	if event.EventType != EventTypeInteractionRecorded {
		return fmt.Errorf("%w: %q", errUnknownEventType, event.EventType)
	}

	required := map[string]string{
		"eventId":    event.EventID,
		"clinicId":   event.ClinicID,
		"salesRepId": event.SalesRepID,
		"productId":  event.ProductID,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("missing required field %q", field)
		}
	}

	if event.Timestamp <= 0 {
		return fmt.Errorf("missing event timestamp")
	}
	if _, err := time.Parse("2006-01-02", event.InteractionDate); err != nil {
		return fmt.Errorf("invalid interactionDate %q: %w", event.InteractionDate, err)
	}
	return nil
}
