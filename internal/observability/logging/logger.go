// Package logging provides shared zerolog context helpers so the same field
// names appear across the pipeline.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// WithUpload returns a logger with upload context.
func WithUpload(filename string) zerolog.Logger {
	return log.With().
		Str("filename", filename).
		Logger()
}

// WithClinic returns a logger with clinic context.
func WithClinic(clinicID, clinicName string) zerolog.Logger {
	return log.With().
		Str("clinicId", clinicID).
		Str("clinicName", clinicName).
		Logger()
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
