package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/auditkit/internal/schema"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Snapshot is the state of one session at a point in time.
type Snapshot struct {
	Meta    schema.Meta
	Answers []schema.AnswerSet
	Logo    *schema.Attachment
}

// Store keeps one isolated answer set per session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Snapshot
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Snapshot)}
}

// Create opens an empty session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &Snapshot{}
	s.mu.Unlock()
	return id
}

// Put replaces the session's state.
func (s *Store) Put(id string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	snap.Answers = append([]schema.AnswerSet(nil), snap.Answers...)
	s.sessions[id] = &snap
	return nil
}

// Get returns a copy of the session's state.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	out := *snap
	out.Answers = append([]schema.AnswerSet(nil), snap.Answers...)
	return out, nil
}

// Delete drops the session and everything it holds.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of open sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
