package server

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/marquee/internal/catalog"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Repository persists catalog records. Implementations assign ids on
// Create and list records in insertion order.
type Repository interface {
	List(ctx context.Context) ([]catalog.Record, error)
	Get(ctx context.Context, id catalog.ID) (catalog.Record, error)
	Create(ctx context.Context, d catalog.Draft) (catalog.Record, error)
	Update(ctx context.Context, id catalog.ID, d catalog.Draft) (catalog.Record, error)
	Delete(ctx context.Context, id catalog.ID) error
	Close() error
}

func newID() catalog.ID {
	return catalog.ID(uuid.NewString())
}

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[catalog.ID]catalog.Record
	order   []catalog.ID
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[catalog.ID]catalog.Record)}
}

func (m *MemoryRepository) List(ctx context.Context) ([]catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id catalog.ID) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return catalog.Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryRepository) Create(ctx context.Context, d catalog.Draft) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	rec := d.WithID(newID())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	return rec, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id catalog.ID, d catalog.Draft) (catalog.Record, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return catalog.Record{}, ErrNotFound
	}
	rec := d.WithID(id)
	m.records[id] = rec
	return rec, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id catalog.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op.
func (m *MemoryRepository) Close() error { return nil }
