package extract

import (
	"regexp"

	"crm-voice-ingress-service/internal/models"
)

// ProductKeywords is the closed list of product-category keywords, in
// priority order. The first keyword found in a transcript wins.
var ProductKeywords = []string{
	"canine vaccines",
	"dental cleaning kits",
	"deworming tablets",
	"diagnostic equipment",
	"feline vaccines",
	"flea & tick prevention kits",
	"joint support supplements",
	"pain relief medication",
	"post-surgery antibiotics",
}

// statusPriority lists the literal status phrases checked against the
// lowercased transcript, first match wins.
var statusPriority = []string{
	models.StatusClosedConverted,
	models.StatusClosedNotConverted,
	models.StatusWorking,
	models.StatusNew,
}

// followUpPhrases are the keyword variants that mark a follow-up mention.
var followUpPhrases = []string{"follow up", "follow-up", "following up"}

var (
	// negationPattern flips a flag clause from "yes" to "no".
	negationPattern = regexp.MustCompile(`(?i)\b(no|not|didn't|didn’t|never|without)\b`)

	// clausePattern splits a transcript into clauses for flag scanning.
	// Commas and semicolons are included so a negation in one clause does
	// not bleed into the next ("no samples given, will follow up").
	clausePattern = regexp.MustCompile(`[.!?;,]`)

	// clinicFallbackPattern finds a capitalized phrase with an
	// institution-type suffix after a movement/visit preposition. Used only
	// when NER yields no organization entity.
	clinicFallbackPattern = regexp.MustCompile(`(?:\bat\b|\bfrom\b|\bover at\b|\bvisit(?:ed)?\b|\bgot out of\b|\bleft\b|\bstepped out of\b)\s+([A-Z][\w&', -]+(?:Clinic|Hospital|Care|Vet|Group|Center|Ltd))`)
)
