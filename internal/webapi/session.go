package webapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	sessionCookie = "pl_session"
	sessionTTL    = 12 * time.Hour
)

type session struct {
	user    string
	expires time.Time
}

// sessions maps cookie ids to logged-in users. Entries live in memory only.
type sessions struct {
	mu   sync.Mutex
	byID map[string]session
	now  func() time.Time
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]session), now: time.Now}
}

func (s *sessions) create(user string) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[id] = session{user: user, expires: s.now().Add(sessionTTL)}
	return id
}

// user returns the user for id, or "" when the session is unknown or expired.
func (s *sessions) user(id string) string {
	if id == "" {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return ""
	}
	if s.now().After(sess.expires) {
		delete(s.byID, id)
		return ""
	}
	return sess.user
}

func (s *sessions) remove(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}
