// Package extract turns raw transcripts into structured interaction records
// using NER output plus keyword and regex heuristics.
package extract

import (
	"context"
	"strings"

	"crm-voice-ingress-service/internal/models"
	"crm-voice-ingress-service/internal/service/ner"
)

// Extractor derives CRM fields from a transcript.
type Extractor struct {
	recognizer ner.Recognizer
}

// New creates an Extractor backed by the given entity recognizer.
func New(recognizer ner.Recognizer) *Extractor {
	return &Extractor{recognizer: recognizer}
}

// Extract maps a transcript to an ExtractedInteraction. Absent entities
// yield empty strings and flags default to "unknown"; the record is always
// usable. A non-nil error reports a recognizer failure only — the regex
// fallbacks still ran and the record reflects them.
func (e *Extractor) Extract(ctx context.Context, transcript string) (models.ExtractedInteraction, error) {
	rec := models.ExtractedInteraction{
		Transcription: transcript,
		SamplesGiven:  models.FlagUnknown,
		FollowUp:      models.FlagUnknown,
		Status:        models.StatusUnknown,
	}

	entities, err := e.recognizer.Recognize(ctx, transcript)
	var persons, orgs []string
	for _, ent := range entities {
		switch ent.Label {
		case ner.LabelPerson:
			persons = append(persons, ent.Text)
		case ner.LabelOrganization:
			orgs = append(orgs, ent.Text)
		}
	}

	if len(persons) > 0 {
		rec.RepName = persons[0]
		if len(persons) > 1 {
			rec.ContactName = persons[1]
		}
	}
	if len(orgs) > 0 {
		rec.ClinicName = orgs[0]
	}
	if rec.ClinicName == "" {
		rec.ClinicName = fallbackClinicName(transcript)
	}

	lower := strings.ToLower(transcript)
	for _, kw := range ProductKeywords {
		if strings.Contains(lower, kw) {
			rec.ProductInterest = kw
			break
		}
	}

	rec.SamplesGiven, rec.FollowUp = scanFlags(transcript)
	rec.Status = resolveStatus(lower)

	return rec, err
}

// fallbackClinicName applies the preposition + institution-suffix regex.
func fallbackClinicName(transcript string) string {
	if m := clinicFallbackPattern.FindStringSubmatch(transcript); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// scanFlags derives Samples_Given and Follow_Up clause by clause.
// A negation word in a relevant clause flips the flag to "no"; later
// clauses overwrite earlier determinations.
func scanFlags(transcript string) (samplesGiven, followUp string) {
	samplesGiven, followUp = models.FlagUnknown, models.FlagUnknown

	for _, clause := range clausePattern.Split(transcript, -1) {
		lower := strings.ToLower(clause)
		negated := negationPattern.MatchString(clause)

		if strings.Contains(lower, "sample") {
			if negated {
				samplesGiven = models.FlagNo
			} else {
				samplesGiven = models.FlagYes
			}
		}
		for _, phrase := range followUpPhrases {
			if strings.Contains(lower, phrase) {
				if negated {
					followUp = models.FlagNo
				} else {
					followUp = models.FlagYes
				}
				break
			}
		}
	}
	return samplesGiven, followUp
}

// resolveStatus returns the first status phrase found in the lowercased
// transcript, in priority order.
func resolveStatus(lowerTranscript string) string {
	for _, status := range statusPriority {
		if strings.Contains(lowerTranscript, status) {
			return status
		}
	}
	return models.StatusUnknown
}
