package brief

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps briefs in process memory
type MemoryRepository struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
	now     func() time.Time
}

// NewMemoryRepository creates empty in-memory repository. now may be nil.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{nextID: 1, now: now}
}

// Seed stores a record as-is, assigning an id when missing
func (m *MemoryRepository) Seed(rec Record) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == 0 {
		rec.ID = m.nextID
	}
	if rec.ID >= m.nextID {
		m.nextID = rec.ID + 1
	}
	m.records = append(m.records, rec)
	return rec.ID
}

// ListDailyBriefs returns copies of stored briefs, newest first
func (m *MemoryRepository) ListDailyBriefs(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := slices.Clone(m.records)
	SortNewestFirst(records)
	return records, nil
}

// CreateDailyBrief stores a brief dated now
func (m *MemoryRepository) CreateDailyBrief(ctx context.Context, req CreateRequest) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.records = append(m.records, Record{ID: id, Date: m.now(), Content: req.Content()})
	return id, nil
}

// GetDailyBrief returns brief by id
func (m *MemoryRepository) GetDailyBrief(ctx context.Context, id int64) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, ErrNotFound
}
