package session

import (
	"sync"
	"time"

	"flightdesk/pkg/logger"

	"github.com/google/uuid"
)

const defaultTTL = 30 * time.Minute

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps sessions in memory and forgets those idle for longer than the
// TTL. Expired sessions are swept whenever a new one is created.
type Store struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(deps Deps, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		deps:     deps,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

func (st *Store) Create() *Session {
	id := uuid.NewString()
	s := New(id, st.deps)

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	swept := st.sweepLocked(now)
	st.sessions[id] = &entry{session: s, lastSeen: now}

	st.deps.Logger.Info("session created",
		logger.Field{Key: "session_id", Value: id},
		logger.Field{Key: "expired", Value: swept},
		logger.Field{Key: "active", Value: len(st.sessions)},
	)
	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := st.now()
	if now.Sub(e.lastSeen) > st.ttl {
		delete(st.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = now
	return e.session, nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) sweepLocked(now time.Time) int {
	swept := 0
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
			swept++
		}
	}
	return swept
}
