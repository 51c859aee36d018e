package bot

import (
	"sync"
	"time"
)

// Memory is the small per-conversation state the responder keeps between
// turns: whether a greeting was shown and the last matched intent. It is
// best-effort bookkeeping, not load-bearing for the next reply.
type Memory struct {
	Greeted    bool
	LastIntent string
}

type memoryEntry struct {
	mem      Memory
	lastSeen time.Time
}

// memoryStore holds conversation memory keyed by conversation ID. Keying
// by conversation (instead of one process-wide slot) keeps concurrent
// chats from clobbering each other's state.
type memoryStore struct {
	mu  sync.Mutex
	m   map[string]*memoryEntry
	ttl time.Duration
}

func newMemoryStore(ttl time.Duration) *memoryStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryStore{
		m:   make(map[string]*memoryEntry),
		ttl: ttl,
	}
}

// update applies fn to the conversation's memory under the store lock,
// creating the entry on first use.
func (s *memoryStore) update(conversationID string, fn func(*Memory)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[conversationID]
	if !ok {
		e = &memoryEntry{}
		s.m[conversationID] = e
	}
	e.lastSeen = time.Now()
	fn(&e.mem)
}

// snapshot returns a copy of the conversation's memory without creating it.
func (s *memoryStore) snapshot(conversationID string) Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.m[conversationID]; ok {
		return e.mem
	}
	return Memory{}
}

// prune drops conversations idle longer than the TTL and returns how many
// were removed.
func (s *memoryStore) prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.m {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}
