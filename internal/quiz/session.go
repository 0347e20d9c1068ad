package quiz

import "sync"

// Session phases
const (
	PhaseAwaitingCount = "awaiting_count"
	PhaseInQuestion    = "in_question"
	PhaseFinished      = "finished"
)

// Session is one user's quiz run. PendingAnswer is set exactly while the
// session is in PhaseInQuestion.
type Session struct {
	TotalQuestions int
	AnsweredCount  int
	CorrectCount   int
	PendingAnswer  string
	Phase          string
}

// SessionStore keeps per-user sessions for the lifetime of the process.
// The mutex guards the map; the engine itself relies on the transport layer
// delivering one user's events in order (hashed worker dispatch).
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Create starts a fresh session for the user, replacing any previous one.
func (s *SessionStore) Create(userID int64, totalQuestions int) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{
		TotalQuestions: totalQuestions,
		Phase:          PhaseAwaitingCount,
	}
	s.sessions[userID] = session
	return session
}

func (s *SessionStore) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[userID]
	return session, ok
}

// Update applies the mutator under the store lock. Returns false when the
// user has no session.
func (s *SessionStore) Update(userID int64, mutate func(*Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return false
	}
	mutate(session)
	return true
}

func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
