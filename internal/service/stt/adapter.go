// Package stt defines the interface for Speech-to-Text adapters.
package stt

import "context"

// Transcriber defines the interface for STT providers (Google, Whisper, mock).
// One uploaded clip is transcribed to completion per call; there is no
// streaming surface in this pipeline.
type Transcriber interface {
	// Transcribe converts an uploaded audio clip into text.
	// The filename is used for format hints only.
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)

	// Provider returns the provider name for logging and metrics.
	Provider() string

	// Close releases provider resources.
	Close() error
}
