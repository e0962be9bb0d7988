// Package mock provides a mock STT adapter for testing without cloud
// credentials. Transcripts are looked up by filename from a canned table so
// pipeline behavior is deterministic.
package mock

import (
	"context"
	"sync"
)

// DefaultTranscripts provides sample field-visit memos keyed by filename.
var DefaultTranscripts = map[string]string{
	"visit1.wav": "Dr. Smith visited Green Valley Veterinary Clinic about canine vaccines, no samples given, will follow up",
	"visit2.mp3": "Maria stopped by Lakeside Animal Hospital to discuss flea & tick prevention kits, samples were left with the front desk, this is a new lead and we are working it",
	"visit3.m4a": "James from our team called on Hilltop Pet Care regarding joint support supplements, they are closed - converted",
}

// DefaultTranscript is returned for filenames not present in the table.
const DefaultTranscript = "Dr. Smith visited Green Valley Veterinary Clinic about canine vaccines, no samples given, will follow up"

// Adapter implements stt.Transcriber with canned responses.
type Adapter struct {
	mu          sync.Mutex
	transcripts map[string]string
	calls       []string
	closed      bool
}

// New creates a new mock STT adapter with the default transcript table.
func New() *Adapter {
	return &Adapter{transcripts: DefaultTranscripts}
}

// NewWithTranscripts creates a mock adapter with a custom transcript table.
func NewWithTranscripts(transcripts map[string]string) *Adapter {
	return &Adapter{transcripts: transcripts}
}

// Transcribe returns the canned transcript for the filename.
func (a *Adapter) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, filename)
	if t, ok := a.transcripts[filename]; ok {
		return t, nil
	}
	return DefaultTranscript, nil
}

// Provider returns the provider name.
func (a *Adapter) Provider() string {
	return "mock"
}

// Close marks the adapter closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Calls returns the filenames transcribed so far.
func (a *Adapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}
