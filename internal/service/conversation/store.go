package conversation

import (
	"container/list"
	"sync"

	"healthchain/internal/config"
)

// Turn is one message in a session transcript.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Store keeps per-session chat history in memory. Sessions are evicted
// least-recently-used once MaxSessions is reached, so a long-running
// server does not grow without bound. History is intentionally not
// persisted; a restart starts conversations fresh.
type Store struct {
	mu          sync.Mutex
	maxSessions int
	sessions    map[string]*list.Element
	order       *list.List // front = most recently used
}

type sessionEntry struct {
	id    string
	turns []Turn
}

func NewStore() *Store {
	return NewStoreWithCapacity(config.MaxSessions)
}

func NewStoreWithCapacity(maxSessions int) *Store {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Store{
		maxSessions: maxSessions,
		sessions:    make(map[string]*list.Element),
		order:       list.New(),
	}
}

// Append records a turn for the session, creating the session if needed
// and evicting the least recently used session when at capacity.
func (s *Store) Append(sessionID string, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[sessionID]
	if !ok {
		if len(s.sessions) >= s.maxSessions {
			oldest := s.order.Back()
			if oldest != nil {
				s.order.Remove(oldest)
				delete(s.sessions, oldest.Value.(*sessionEntry).id)
			}
		}
		elem = s.order.PushFront(&sessionEntry{id: sessionID})
		s.sessions[sessionID] = elem
	} else {
		s.order.MoveToFront(elem)
	}

	entry := elem.Value.(*sessionEntry)
	entry.turns = append(entry.turns, turn)
}

// Recent returns up to limit of the session's most recent turns, oldest
// first. An unknown session returns nil.
func (s *Store) Recent(sessionID string, limit int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	s.order.MoveToFront(elem)

	turns := elem.Value.(*sessionEntry).turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
