// Package session provides the shared conversational identity that binds the
// concurrent agent calls of one workflow run together. A session is created
// once per run, accumulates turns from every branch, and is discarded after.
package session

import (
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"
)

// Key identifies one session by the (app, user, session) triple.
type Key struct {
	App  string
	User string
	ID   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.App, k.User, k.ID)
}

// Session holds the append-only conversation history of one workflow run.
// Appends from parallel branches are serialized; the turn slices of sibling
// branches interleave but never corrupt each other.
type Session struct {
	key Key

	mu      sync.Mutex
	history []*schema.Message
}

// Key returns the identity triple of the session.
func (s *Session) Key() Key { return s.key }

// Append records one or more turns.
func (s *Session) Append(msgs ...*schema.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
}

// History returns a snapshot copy of the accumulated turns.
func (s *Session) History() []*schema.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*schema.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Len reports the number of accumulated turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Service manages session lifecycles. Implementations must be safe for
// concurrent use.
type Service interface {
	Create(app, user, id string) (*Session, error)
	Get(app, user, id string) (*Session, bool)
	Delete(app, user, id string)
}

// InMemoryService is the default process-local session store.
type InMemoryService struct {
	mu       sync.RWMutex
	sessions map[Key]*Session
}

// NewInMemoryService creates an empty session store.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{sessions: make(map[Key]*Session)}
}

var _ Service = (*InMemoryService)(nil)

// Create registers a new session. Reusing a live key is an error: a session is
// scoped to exactly one workflow run.
func (s *InMemoryService) Create(app, user, id string) (*Session, error) {
	key := Key{App: app, User: user, ID: id}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[key]; exists {
		return nil, fmt.Errorf("session already exists: %s", key)
	}
	sess := &Session{key: key}
	s.sessions[key] = sess
	return sess, nil
}

// Get looks up a live session.
func (s *InMemoryService) Get(app, user, id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[Key{App: app, User: user, ID: id}]
	return sess, ok
}

// Delete drops a session after its workflow run completes.
func (s *InMemoryService) Delete(app, user, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, Key{App: app, User: user, ID: id})
}
