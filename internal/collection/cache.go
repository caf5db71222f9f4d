package collection

import (
	"context"
	"errors"
	"sync"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/brickstore/brickstore/internal/domain"
)

// Topics published on the event bus after a successful mutation.
const (
	TopicSetCreated = "lego_set:created" // arg: domain.LegoSet
	TopicSetUpdated = "lego_set:updated" // arg: domain.LegoSet
	TopicSetDeleted = "lego_set:deleted" // arg: id string
)

// Cache keeps the last fetched collection for fast list rendering. Mutations
// go through the Service first and are then spliced into the cached list;
// when a mutation fails the cache is refetched from the store. The cache is
// a responsiveness aid only: the store stays authoritative.
type Cache struct {
	svc    *Service
	events EventBus.Bus

	mu     sync.RWMutex
	sets   []domain.LegoSet
	loaded bool
}

// NewCache wraps svc. bus may be nil.
func NewCache(svc *Service, bus EventBus.Bus) *Cache {
	return &Cache{svc: svc, events: bus}
}

func (c *Cache) publish(topic string, arg interface{}) {
	if c.events != nil {
		c.events.Publish(topic, arg)
	}
}

// List returns the cached collection, loading it on first use.
func (c *Cache) List(ctx context.Context) ([]domain.LegoSet, error) {
	c.mu.RLock()
	if c.loaded {
		out := append([]domain.LegoSet(nil), c.sets...)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	if err := c.Revalidate(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.LegoSet{}, c.sets...), nil
}

// Revalidate replaces the cached list with the store's current state.
func (c *Cache) Revalidate(ctx context.Context) error {
	sets, err := c.svc.GetAll(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sets = sets
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Add creates a set and puts it at the head of the cached list.
func (c *Cache) Add(ctx context.Context, d Draft) (*domain.LegoSet, error) {
	set, err := c.svc.Create(ctx, d)
	if err != nil {
		c.resync(ctx, err)
		return nil, err
	}
	c.mu.Lock()
	if c.loaded {
		c.sets = append([]domain.LegoSet{*set}, c.sets...)
	}
	c.mu.Unlock()
	c.publish(TopicSetCreated, *set)
	return set, nil
}

// Change updates a set and replaces its cached copy.
func (c *Cache) Change(ctx context.Context, id string, p Patch) (*domain.LegoSet, error) {
	set, err := c.svc.Update(ctx, id, p)
	if err != nil {
		c.resync(ctx, err)
		return nil, err
	}
	c.mu.Lock()
	for i := range c.sets {
		if c.sets[i].ID == id {
			c.sets[i] = *set
			break
		}
	}
	c.mu.Unlock()
	c.publish(TopicSetUpdated, *set)
	return set, nil
}

// Remove drops the set from the cached list before deleting it in the store.
func (c *Cache) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	for i := range c.sets {
		if c.sets[i].ID == id {
			c.sets = append(c.sets[:i:i], c.sets[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if err := c.svc.Delete(ctx, id); err != nil {
		c.resync(ctx, err)
		return err
	}
	c.publish(TopicSetDeleted, id)
	return nil
}

// resync discards local state after a failed mutation. Validation failures
// never reached the store, so nothing needs refetching.
func (c *Cache) resync(ctx context.Context, cause error) {
	if errors.Is(cause, ErrValidation) {
		return
	}
	if err := c.Revalidate(ctx); err != nil {
		zap.L().Warn("cache revalidation after failed mutation", zap.NamedError("cause", cause), zap.Error(err))
		c.mu.Lock()
		c.sets = nil
		c.loaded = false
		c.mu.Unlock()
	}
}
