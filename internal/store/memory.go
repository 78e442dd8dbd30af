package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocStore used by tests and local development.
// Watches are notified synchronously after each write.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	collWatch   map[string]map[string]CollectionHandler
	docWatch    map[string]map[string]DocumentHandler
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		collWatch:   make(map[string]map[string]CollectionHandler),
		docWatch:    make(map[string]map[string]DocumentHandler),
	}
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.collections[collection][id]
	if !ok {
		return Snapshot{ID: id, Exists: false}, nil
	}
	return CloneSnapshot(Snapshot{ID: id, Fields: fields, Exists: true}), nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(collection), nil
}

func (m *MemoryStore) listLocked(collection string) []Snapshot {
	docs := make([]Snapshot, 0, len(m.collections[collection]))
	for id, fields := range m.collections[collection] {
		docs = append(docs, CloneSnapshot(Snapshot{ID: id, Fields: fields, Exists: true}))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (m *MemoryStore) Apply(ctx context.Context, collection, id string, merge Merge) error {
	m.mu.Lock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]map[string]interface{})
		m.collections[collection] = coll
	}

	coll[id] = ApplyMerge(coll[id], merge)

	collHandlers := make([]CollectionHandler, 0, len(m.collWatch[collection]))
	for _, h := range m.collWatch[collection] {
		collHandlers = append(collHandlers, h)
	}
	docHandlers := make([]DocumentHandler, 0, len(m.docWatch[docKey(collection, id)]))
	for _, h := range m.docWatch[docKey(collection, id)] {
		docHandlers = append(docHandlers, h)
	}

	listSnap := m.listLocked(collection)
	docSnap := CloneSnapshot(Snapshot{ID: id, Fields: coll[id], Exists: true})

	m.mu.Unlock()

	for _, h := range collHandlers {
		h(listSnap)
	}
	for _, h := range docHandlers {
		h(docSnap)
	}

	return nil
}

func (m *MemoryStore) WatchCollection(ctx context.Context, collection string, onSnapshot CollectionHandler, onError ErrorHandler) error {
	m.mu.Lock()
	watcherID := uuid.NewString()
	if m.collWatch[collection] == nil {
		m.collWatch[collection] = make(map[string]CollectionHandler)
	}
	m.collWatch[collection][watcherID] = onSnapshot
	initial := m.listLocked(collection)
	m.mu.Unlock()

	onSnapshot(initial)

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.collWatch[collection], watcherID)
		m.mu.Unlock()
	}()

	return nil
}

func (m *MemoryStore) WatchDocument(ctx context.Context, collection, id string, onSnapshot DocumentHandler, onError ErrorHandler) error {
	key := docKey(collection, id)

	m.mu.Lock()
	watcherID := uuid.NewString()
	if m.docWatch[key] == nil {
		m.docWatch[key] = make(map[string]DocumentHandler)
	}
	m.docWatch[key][watcherID] = onSnapshot

	var initial Snapshot
	if fields, ok := m.collections[collection][id]; ok {
		initial = CloneSnapshot(Snapshot{ID: id, Fields: fields, Exists: true})
	} else {
		initial = Snapshot{ID: id, Exists: false}
	}
	m.mu.Unlock()

	onSnapshot(initial)

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.docWatch[key], watcherID)
		m.mu.Unlock()
	}()

	return nil
}

func docKey(collection, id string) string {
	return collection + "/" + id
}
