package pipeline

import (
	"sync"

	"github.com/Pradeep2535/Comic-AI-Generator/internal/models"
)

// Store keeps finished comic results in memory for the lifetime of the
// process so the download endpoints can serve them. Nothing is
// persisted; a restart forgets everything.
type Store struct {
	mu      sync.RWMutex
	results map[string]*models.ComicResult
	lastID  string
}

// NewStore creates an empty result store.
func NewStore() *Store {
	return &Store{results: make(map[string]*models.ComicResult)}
}

// Put stores a finished result and marks it as the latest.
func (s *Store) Put(result *models.ComicResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result
	s.lastID = result.ID
}

// Get returns the result for an ID, or false when unknown.
func (s *Store) Get(id string) (*models.ComicResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	return result, ok
}

// Latest returns the most recently stored result, or false when the
// store is empty.
func (s *Store) Latest() (*models.ComicResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastID == "" {
		return nil, false
	}
	result, ok := s.results[s.lastID]
	return result, ok
}
