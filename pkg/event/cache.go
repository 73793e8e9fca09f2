package event

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/go-redis/redis"
	"github.com/google/uuid"
)

// generationTTL outlives any lookup in flight so a generation never restarts under a reader.
const generationTTL = 24 * time.Hour

var errStaleRead = errors.New("event was evicted while reading")

// Cache fronts an event repository with a Redis read-through cache for single event lookups.
// Writes go to the repository first and evict the cached copy afterward. Every eviction bumps a
// per event generation; a lookup only caches what it read if the generation did not change while it
// was reading. Redis failures are logged and never fail the operation.
type Cache struct {
	logger *slog.Logger
	base   eventRepository
	redis  *redis.Client
	ttl    time.Duration
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewCache(logger *slog.Logger, base eventRepository, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("event.NewCache: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	return &Cache{
		logger: logger,
		base:   base,
		redis:  client,
		ttl:    ttl,
	}
}

func (c *Cache) create(ctx context.Context, event *model.Event) error {
	return c.base.create(ctx, event)
}

func (c *Cache) find(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	if event, ok := c.load(ctx, id); ok {
		return event, nil
	}

	generation, ok := c.generation(ctx, id)

	event, err := c.base.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if ok {
		c.store(ctx, event, generation)
	}
	return event, nil
}

func (c *Cache) save(ctx context.Context, event *model.Event) error {
	if err := c.base.save(ctx, event); err != nil {
		return err
	}

	c.evict(ctx, event.ID)
	return nil
}

func (c *Cache) delete(ctx context.Context, id uuid.UUID) error {
	if err := c.base.delete(ctx, id); err != nil {
		return err
	}

	c.evict(ctx, id)
	return nil
}

func (c *Cache) findByStartAtBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	return c.base.findByStartAtBetween(ctx, from, to)
}

func (c *Cache) load(ctx context.Context, id uuid.UUID) (*model.Event, bool) {
	if c.redis == nil {
		return nil, false
	}

	key := cacheKey(id)
	data, err := c.redis.Get(key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Failed to read event from cache", "key", key, "error", err)
			c.evict(ctx, id)
		}
		return nil, false
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.logger.WarnContext(ctx, "Failed to decode cached event", "key", key, "error", err)
		c.evict(ctx, id)
		return nil, false
	}

	return &event, true
}

// generation returns the number of evictions of the event. It reports false if it cannot be read.
func (c *Cache) generation(ctx context.Context, id uuid.UUID) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}

	key := generationKey(id)
	generation, err := c.redis.Get(key).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to read event cache generation", "key", key, "error", err)
		return 0, false
	}
	return generation, true
}

// store caches event unless it was evicted since generation was read.
func (c *Cache) store(ctx context.Context, event *model.Event, generation int64) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	key := cacheKey(event.ID)
	genKey := generationKey(event.ID)
	err = c.redis.Watch(func(tx *redis.Tx) error {
		current, err := tx.Get(genKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != generation {
			return errStaleRead
		}

		_, err = tx.TxPipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(key, data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err == errStaleRead || err == redis.TxFailedErr {
		c.logger.DebugContext(ctx, "Skipped caching event evicted while reading", "key", key)
		return
	}
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to cache event", "key", key, "error", err)
	}
}

func (c *Cache) evict(ctx context.Context, id uuid.UUID) {
	if c.redis == nil {
		return
	}

	key := cacheKey(id)
	genKey := generationKey(id)
	_, err := c.redis.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.Incr(genKey)
		pipe.Expire(genKey, generationTTL)
		pipe.Del(key)
		return nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to evict event from cache", "key", key, "error", err)
	}
}

func cacheKey(id uuid.UUID) string {
	return "event:" + id.String()
}

func generationKey(id uuid.UUID) string {
	return "event:" + id.String() + ":generation"
}
