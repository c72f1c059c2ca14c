package lspserver

import "sync"

// DocumentStore holds the open documents' current text, keyed by URI.
// The server advertises full sync, so each change replaces the whole text.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]string)}
}

// Get returns the current text of a document.
func (s *DocumentStore) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[uri]
	return text, ok
}

// Set replaces the text of a document.
func (s *DocumentStore) Set(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

// Delete removes a document.
func (s *DocumentStore) Delete(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}
