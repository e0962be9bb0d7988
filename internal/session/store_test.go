package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-voice-ingress-service/internal/models"
)

func carryCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStore_AppendAndPeek(t *testing.T) {
	s := NewStore("test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	rows := []models.InteractionRow{
		{ClinicID: "C001", RepName: "Alice"},
		{ClinicID: "C002", RepName: "Bob"},
	}
	if err := s.Append(w, req, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := carryCookies(t, w)
	got := s.Peek(next)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ClinicID != "C001" || got[1].ClinicID != "C002" {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestStore_TakeClears(t *testing.T) {
	s := NewStore("test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := s.Append(w, req, []models.InteractionRow{{ClinicID: "C001"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := carryCookies(t, w)
	if got := s.Take(next); len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}

	again := carryCookies(t, w)
	if got := s.Take(again); len(got) != 0 {
		t.Errorf("expected cleared session, got %d rows", len(got))
	}
}

func TestStore_NoCookieYieldsNothing(t *testing.T) {
	s := NewStore("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := s.Peek(req); got != nil {
		t.Errorf("expected nil for fresh request, got %+v", got)
	}
	if got := s.Take(req); got != nil {
		t.Errorf("expected nil for fresh request, got %+v", got)
	}
}

func TestStore_AppendAccumulatesAcrossRequests(t *testing.T) {
	s := NewStore("test-secret")

	w1 := httptest.NewRecorder()
	req1 := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := s.Append(w1, req1, []models.InteractionRow{{ClinicID: "C001"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req2 := carryCookies(t, w1)
	w2 := httptest.NewRecorder()
	if err := s.Append(w2, req2, []models.InteractionRow{{ClinicID: "C002"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req3 := carryCookies(t, w1)
	if got := s.Peek(req3); len(got) != 2 {
		t.Errorf("expected 2 accumulated rows, got %d", len(got))
	}
}
