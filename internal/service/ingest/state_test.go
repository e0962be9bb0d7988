package ingest

import (
	"errors"
	"testing"
)

func TestLifecycle_HappyPath(t *testing.T) {
	lc := NewLifecycle("visit1.wav")

	if lc.State() != StateUploaded {
		t.Fatalf("expected UPLOADED, got %s", lc.State())
	}
	if lc.ClipName() != "visit1.wav" {
		t.Errorf("unexpected clip name %q", lc.ClipName())
	}

	if err := lc.MarkTranscribed(); err != nil {
		t.Fatalf("MarkTranscribed: %v", err)
	}
	if err := lc.MarkExtracted(); err != nil {
		t.Fatalf("MarkExtracted: %v", err)
	}
	if err := lc.MarkResolved(); err != nil {
		t.Fatalf("MarkResolved: %v", err)
	}

	if lc.State() != StateResolved {
		t.Errorf("expected RESOLVED, got %s", lc.State())
	}
	if !lc.State().IsTerminal() {
		t.Error("expected RESOLVED to be terminal")
	}
}

func TestLifecycle_OutOfOrderStage(t *testing.T) {
	lc := NewLifecycle("visit1.wav")

	if err := lc.MarkExtracted(); !errors.Is(err, ErrOutOfOrderStage) {
		t.Errorf("expected ErrOutOfOrderStage, got %v", err)
	}
	if err := lc.MarkResolved(); !errors.Is(err, ErrOutOfOrderStage) {
		t.Errorf("expected ErrOutOfOrderStage, got %v", err)
	}
	if lc.State() != StateUploaded {
		t.Errorf("state should be unchanged, got %s", lc.State())
	}
}

func TestLifecycle_DropBlocksFurtherStages(t *testing.T) {
	lc := NewLifecycle("visit1.wav")

	if !lc.Drop() {
		t.Fatal("expected Drop to succeed")
	}
	if !lc.IsDropped() {
		t.Error("expected IsDropped")
	}

	if err := lc.MarkTranscribed(); !errors.Is(err, ErrClipDropped) {
		t.Errorf("expected ErrClipDropped, got %v", err)
	}
}

func TestLifecycle_DropIsTerminalAndIdempotent(t *testing.T) {
	lc := NewLifecycle("visit1.wav")

	if !lc.Drop() {
		t.Fatal("expected first Drop to succeed")
	}
	if lc.Drop() {
		t.Error("expected second Drop to report already terminal")
	}
}

func TestLifecycle_ResolvedCannotBeDropped(t *testing.T) {
	lc := NewLifecycle("visit1.wav")
	if err := lc.MarkTranscribed(); err != nil {
		t.Fatal(err)
	}
	if err := lc.MarkExtracted(); err != nil {
		t.Fatal(err)
	}
	if err := lc.MarkResolved(); err != nil {
		t.Fatal(err)
	}

	if lc.Drop() {
		t.Error("expected Drop on resolved clip to report already terminal")
	}
	if err := lc.MarkTranscribed(); !errors.Is(err, ErrClipResolved) {
		t.Errorf("expected ErrClipResolved, got %v", err)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUploaded, "UPLOADED"},
		{StateTranscribed, "TRANSCRIBED"},
		{StateExtracted, "EXTRACTED"},
		{StateResolved, "RESOLVED"},
		{StateDropped, "DROPPED"},
		{State(99), "UNKNOWN(99)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
