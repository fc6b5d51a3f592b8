package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/spigell/talentscout/internal/conversation"
)

var ErrSessionNotFound = errors.New("session not found")

// entry guards one session. Turns on the same session run one at a time.
type entry struct {
	mu      sync.Mutex
	session *conversation.Session
	closed  bool
}

// Store keeps live sessions in memory.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) create(language string) *entry {
	e := &entry{session: conversation.NewSession(uuid.NewString(), language)}

	s.mu.Lock()
	s.entries[e.session.ID] = e
	s.mu.Unlock()

	return e
}

func (s *Store) get(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *Store) delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
