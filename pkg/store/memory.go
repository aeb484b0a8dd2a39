package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/io"
)

// MemoryStore keeps documents in a map guarded by a RWMutex.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, name string) (Document, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return Document{}, notFound(name)
	}
	return doc, nil
}

func (s *MemoryStore) Put(_ context.Context, name string, def io.Definition) (Document, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	doc := Document{Name: name, Definition: def, CreatedAt: now, UpdatedAt: now}
	if prev, ok := s.docs[name]; ok {
		doc.CreatedAt = prev.CreatedAt
	}
	s.docs[name] = doc
	return doc, nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[name]; !ok {
		return notFound(name)
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) List(context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b Document) int { return strings.Compare(a.Name, b.Name) })
	return docs, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
