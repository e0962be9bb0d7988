// Package session accumulates confirmed interactions per user session for
// later export. The cookie carries only an opaque session ID; the record
// list lives server-side with an explicit lifecycle: created on first
// submission, cleared on export.
package session

import (
	"crypto/sha256"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"crm-voice-ingress-service/internal/models"
)

// Name is the session cookie name.
const Name = "crm-voice-session"

const keySessionID = "sid"

// Store holds per-session submitted interactions.
type Store struct {
	cookies *sessions.CookieStore

	mu      sync.Mutex
	records map[string][]models.InteractionRow
}

// NewStore creates a session store. The secret signs session cookies; it is
// SHA-256 hashed to derive a consistent 32-byte key.
func NewStore(secret string) *Store {
	key := sha256.Sum256([]byte(secret))

	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   12 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Store{
		cookies: cookies,
		records: make(map[string][]models.InteractionRow),
	}
}

// Append adds rows to the request's session, creating the session on first
// submission.
func (s *Store) Append(w http.ResponseWriter, r *http.Request, rows []models.InteractionRow) error {
	if len(rows) == 0 {
		return nil
	}

	sess, _ := s.cookies.Get(r, Name)
	sid, ok := sess.Values[keySessionID].(string)
	if !ok || sid == "" {
		sid = uuid.New().String()
		sess.Values[keySessionID] = sid
		if err := sess.Save(r, w); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.records[sid] = append(s.records[sid], rows...)
	s.mu.Unlock()
	return nil
}

// Peek returns the session's accumulated rows without clearing them.
func (s *Store) Peek(r *http.Request) []models.InteractionRow {
	sess, _ := s.cookies.Get(r, Name)
	sid, ok := sess.Values[keySessionID].(string)
	if !ok || sid == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.records[sid]
	out := make([]models.InteractionRow, len(rows))
	copy(out, rows)
	return out
}

// Take returns the session's accumulated rows and clears them.
func (s *Store) Take(r *http.Request) []models.InteractionRow {
	sess, _ := s.cookies.Get(r, Name)
	sid, ok := sess.Values[keySessionID].(string)
	if !ok || sid == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.records[sid]
	delete(s.records, sid)
	return rows
}
