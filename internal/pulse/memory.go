package pulse

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps updates in process memory
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

// Seed stores a record without validation, assigning an id when missing
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

// ListMarketPulseUpdates returns copies of stored updates, newest first
func (m *MemoryRepository) ListMarketPulseUpdates(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := slices.Clone(m.records)
	SortNewestFirst(records)
	return records, nil
}

// CreateMarketPulseUpdate validates and stores an update stamped now
func (m *MemoryRepository) CreateMarketPulseUpdate(ctx context.Context, updateText, previousUpdateText string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := CheckNewInformation(updateText, previousUpdateText); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if latest := Latest(m.records); latest != nil {
		if latest.UpdateText == updateText || Identical(latest.UpdateText, updateText) {
			return 0, ErrNotNewInformation
		}
	}

	id := m.nextID
	m.nextID++
	m.records = append(m.records, Record{ID: id, UpdateText: updateText, Timestamp: m.now()})
	return id, nil
}

// GetMarketPulseUpdate returns update by id
func (m *MemoryRepository) GetMarketPulseUpdate(ctx context.Context, id int64) (*Record, error) {
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
