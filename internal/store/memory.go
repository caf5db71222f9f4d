package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/brickstore/brickstore/internal/domain"
)

// orderKey positions a row in creation order. seq breaks ties between rows
// created within the same clock tick.
type orderKey struct {
	created time.Time
	seq     uint64
	id      string
}

// newestFirst orders the btree so that an ascending walk yields the most
// recently created row first.
func newestFirst(a, b orderKey) bool {
	if !a.created.Equal(b.created) {
		return a.created.After(b.created)
	}
	return a.seq > b.seq
}

// MemoryStore keeps rows in process memory, indexed by a btree in creation
// order. It backs tests and the "memory" driver.
type MemoryStore struct {
	mu    sync.RWMutex
	rows  map[string]domain.LegoSet
	keys  map[string]orderKey
	order *btree.BTreeG[orderKey]
	seq   uint64
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:  make(map[string]domain.LegoSet),
		keys:  make(map[string]orderKey),
		order: btree.NewG[orderKey](16, newestFirst),
		now:   time.Now,
	}
}

func (s *MemoryStore) Insert(ctx context.Context, set *domain.LegoSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	set.ID = uuid.NewString()
	set.CreatedAt = now
	set.UpdatedAt = now

	s.seq++
	key := orderKey{created: now, seq: s.seq, id: set.ID}
	s.rows[set.ID] = clone(*set)
	s.keys[set.ID] = key
	s.order.ReplaceOrInsert(key)
	return nil
}

func (s *MemoryStore) SelectAll(ctx context.Context) ([]domain.LegoSet, error) {
	return s.selectWhere(ctx, func(domain.LegoSet) bool { return true })
}

func (s *MemoryStore) SelectByType(ctx context.Context, t domain.SetType) ([]domain.LegoSet, error) {
	return s.selectWhere(ctx, func(set domain.LegoSet) bool { return set.Type == t })
}

func (s *MemoryStore) selectWhere(ctx context.Context, match func(domain.LegoSet) bool) ([]domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sets := make([]domain.LegoSet, 0, len(s.rows))
	s.order.Ascend(func(k orderKey) bool {
		if set := s.rows[k.id]; match(set) {
			sets = append(sets, clone(set))
		}
		return true
	})
	return sets, nil
}

func (s *MemoryStore) SelectByID(ctx context.Context, id string) (*domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.rows[id]
	if !ok {
		return nil, ErrNoRows
	}
	out := clone(set)
	return &out, nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id string, cols Columns) (*domain.LegoSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.rows[id]
	if !ok {
		return nil, ErrNoRows
	}
	set = clone(set)
	if err := ApplyColumns(&set, cols); err != nil {
		return nil, err
	}
	set.UpdatedAt = s.now().UTC()
	s.rows[id] = set

	out := clone(set)
	return &out, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[id]; ok {
		s.order.Delete(key)
		delete(s.keys, id)
		delete(s.rows, id)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func clone(set domain.LegoSet) domain.LegoSet {
	if set.Details != nil {
		set.Details = append(set.Details[:0:0], set.Details...)
	}
	return set
}
