package store

import (
	"context"
	"sync"

	"github.com/serroba/foodgram-go/internal/shortlink"
)

type linkKey struct {
	kind shortlink.Kind
	id   int64
}

type codeKey struct {
	kind shortlink.Kind
	code shortlink.Code
}

// MemoryStore is an in-memory implementation of shortlink.Repository.
// It enforces the same uniqueness rules as the Postgres tables.
type MemoryStore struct {
	mu         sync.RWMutex
	byResource map[linkKey]*shortlink.ShortLink
	byCode     map[codeKey]*shortlink.ShortLink
}

// NewMemoryStore creates a new in-memory short link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byResource: make(map[linkKey]*shortlink.ShortLink),
		byCode:     make(map[codeKey]*shortlink.ShortLink),
	}
}

func (m *MemoryStore) Create(_ context.Context, link *shortlink.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rk := linkKey{kind: link.Kind, id: link.ResourceID}
	if _, ok := m.byResource[rk]; ok {
		return shortlink.ErrResourceLinked
	}

	ck := codeKey{kind: link.Kind, code: link.Code}
	if _, ok := m.byCode[ck]; ok {
		return shortlink.ErrCodeTaken
	}

	stored := *link
	m.byResource[rk] = &stored
	m.byCode[ck] = &stored

	return nil
}

func (m *MemoryStore) GetByResource(_ context.Context, kind shortlink.Kind, resourceID int64) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.byResource[linkKey{kind: kind, id: resourceID}]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	found := *link

	return &found, nil
}

func (m *MemoryStore) GetByCode(_ context.Context, kind shortlink.Kind, code shortlink.Code) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.byCode[codeKey{kind: kind, code: code}]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	found := *link

	return &found, nil
}

// DeleteResource drops the link of a deleted resource, mirroring the
// cascading foreign key of the Postgres schema.
func (m *MemoryStore) DeleteResource(_ context.Context, kind shortlink.Kind, resourceID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rk := linkKey{kind: kind, id: resourceID}
	if link, ok := m.byResource[rk]; ok {
		delete(m.byCode, codeKey{kind: kind, code: link.Code})
		delete(m.byResource, rk)
	}
}

var _ shortlink.Repository = (*MemoryStore)(nil)
