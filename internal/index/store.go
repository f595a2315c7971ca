package index

import (
	"fmt"
	"sync"

	"lexrag/internal/domain"
)

// DocumentInfo summarizes one indexed document.
type DocumentInfo struct {
	ID     string
	Name   string
	Chunks int
}

// Store is an in-memory chunk store keyed by document.
// Documents are kept in first-insertion order.
type Store struct {
	mu     sync.RWMutex
	order  []string
	chunks map[string][]domain.Chunk
	names  map[string]string
}

func NewStore() *Store {
	return &Store{
		chunks: make(map[string][]domain.Chunk),
		names:  make(map[string]string),
	}
}

// Put replaces every chunk held for documentID.
func (s *Store) Put(documentID, documentName string, chunks []domain.Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[documentID]; !ok {
		s.order = append(s.order, documentID)
	}
	s.chunks[documentID] = append([]domain.Chunk(nil), chunks...)
	s.names[documentID] = documentName
}

// Remove drops a document and its chunks.
func (s *Store) Remove(documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[documentID]; !ok {
		return fmt.Errorf("remove %s: %w", documentID, domain.ErrDocumentNotFound)
	}
	delete(s.chunks, documentID)
	delete(s.names, documentID)
	for i, id := range s.order {
		if id == documentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Candidates returns the chunks of the given documents, or of every document
// when none are named. Unknown ids are ignored. Chunks come back in document
// insertion order, then by chunk index.
func (s *Store) Candidates(documentIDs ...string) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scope map[string]struct{}
	if len(documentIDs) > 0 {
		scope = make(map[string]struct{}, len(documentIDs))
		for _, id := range documentIDs {
			scope[id] = struct{}{}
		}
	}
	var out []domain.Chunk
	for _, id := range s.order {
		if scope != nil {
			if _, ok := scope[id]; !ok {
				continue
			}
		}
		out = append(out, s.chunks[id]...)
	}
	return out
}

// Documents lists indexed documents in insertion order.
func (s *Store) Documents() []DocumentInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DocumentInfo, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, DocumentInfo{ID: id, Name: s.names[id], Chunks: len(s.chunks[id])})
	}
	return out
}

// Len returns the total number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.chunks {
		n += len(c)
	}
	return n
}
