package riddle

import "sync"

// session holds the state of one chat's game. All reads and writes of its
// fields happen under mu, so read-check-write sequences for a chat are
// serialized while different chats stay fully independent.
type session struct {
	mu sync.Mutex

	active   bool
	riddle   Riddle
	answered map[string]struct{}
	winner   string // empty until the first correct answer
}

// reset installs a new riddle and wipes all answer tracking. Caller holds mu.
func (s *session) reset(r Riddle) {
	s.active = true
	s.riddle = r
	s.answered = make(map[string]struct{})
	s.winner = ""
}

// Store owns the chat id -> session mapping. Sessions are created on demand
// and live for the process lifetime; chat volume is bot-scale, so no eviction.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*session)}
}

// acquire returns the session for a chat, creating it if needed.
func (st *Store) acquire(chatID int64) *session {
	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chatID]; ok {
		return s
	}
	s = &session{}
	st.sessions[chatID] = s
	return s
}

// lookup returns the session for a chat without creating one.
func (st *Store) lookup(chatID int64) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[chatID]
	return s, ok
}

// Len reports how many chats have a session, for diagnostics.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
