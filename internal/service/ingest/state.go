// Package ingest runs the per-clip pipeline: persist the upload, transcribe,
// extract fields, and reconcile the clinic name against the directory.
package ingest

import (
	"errors"
	"fmt"
	"sync"
)

// State represents the lifecycle state of an uploaded clip.
type State int

const (
	// StateUploaded - Clip accepted and persisted to the upload directory.
	StateUploaded State = iota
	// StateTranscribed - Speech-to-text produced a transcript.
	StateTranscribed
	// StateExtracted - Field extraction produced a structured record.
	StateExtracted
	// StateResolved - Clinic reconciliation finished (exact, fuzzy or new).
	StateResolved
	// StateDropped - Clip abandoned before review. Terminal.
	// "Silence > bad data"
	StateDropped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUploaded:
		return "UPLOADED"
	case StateTranscribed:
		return "TRANSCRIBED"
	case StateExtracted:
		return "EXTRACTED"
	case StateResolved:
		return "RESOLVED"
	case StateDropped:
		return "DROPPED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is terminal (RESOLVED or DROPPED).
func (s State) IsTerminal() bool {
	return s == StateResolved || s == StateDropped
}

// Errors for invalid state transitions.
var (
	ErrClipDropped     = errors.New("clip is dropped")
	ErrClipResolved    = errors.New("clip already resolved")
	ErrOutOfOrderStage = errors.New("pipeline stage out of order")
)

// Lifecycle manages the state machine for a single clip.
// Thread-safe for concurrent access.
//
// State transitions:
//
//	UPLOADED → TRANSCRIBED → EXTRACTED → RESOLVED
//	    │           │            │
//	    └───────────┴────────────┴── Drop() ──→ DROPPED
//
// Rules:
//   - Stages advance strictly in order; skipping a stage is an error.
//   - DROPPED and RESOLVED are terminal; no stage may run afterwards.
type Lifecycle struct {
	mu       sync.RWMutex
	clipName string
	state    State
}

// NewLifecycle creates a new clip lifecycle in UPLOADED state.
func NewLifecycle(clipName string) *Lifecycle {
	return &Lifecycle{
		clipName: clipName,
		state:    StateUploaded,
	}
}

// ClipName returns the clip's stored filename.
func (l *Lifecycle) ClipName() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.clipName
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// IsDropped returns true if the clip was dropped.
func (l *Lifecycle) IsDropped() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state == StateDropped
}

// MarkTranscribed transitions UPLOADED → TRANSCRIBED.
func (l *Lifecycle) MarkTranscribed() error {
	return l.advance(StateUploaded, StateTranscribed)
}

// MarkExtracted transitions TRANSCRIBED → EXTRACTED.
func (l *Lifecycle) MarkExtracted() error {
	return l.advance(StateTranscribed, StateExtracted)
}

// MarkResolved transitions EXTRACTED → RESOLVED.
func (l *Lifecycle) MarkResolved() error {
	return l.advance(StateExtracted, StateResolved)
}

func (l *Lifecycle) advance(from, to State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.state == from:
		l.state = to
		return nil
	case l.state == StateDropped:
		return ErrClipDropped
	case l.state == StateResolved:
		return ErrClipResolved
	default:
		return fmt.Errorf("%w: %v → %v from %v", ErrOutOfOrderStage, from, to, l.state)
	}
}

// Drop transitions the clip to DROPPED state.
// Use when a stage fails and the clip should be abandoned without reaching
// review. Returns true if the clip was dropped, false if already terminal.
func (l *Lifecycle) Drop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.IsTerminal() {
		return false
	}
	l.state = StateDropped
	return true
}
