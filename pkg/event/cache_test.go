package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/go-redis/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func newCachedEvent() *model.Event {
	location := "Room A"
	return &model.Event{
		ID:          uuid.New(),
		Title:       "Team Meeting",
		Description: "Weekly sync",
		StartAt:     time.Date(2025, 10, 23, 6, 30, 0, 0, time.UTC),
		FinishAt:    time.Date(2025, 10, 23, 7, 0, 0, 0, time.UTC),
		Location:    &location,
	}
}

func TestCache_FindMissThenHit(t *testing.T) {
	mr, client := setupMiniredis(t)
	event := newCachedEvent()
	repository := &mockRepository{}
	repository.On("find", event.ID).Return(event, nil).Once()
	cache := NewCache(discardLogger, repository, client, time.Minute)

	got, err := cache.find(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event, got)
	assert.True(t, mr.Exists(cacheKey(event.ID)))
	ttl := mr.TTL(cacheKey(event.ID))
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %s", ttl)

	got, err = cache.find(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Title, got.Title)
	assert.True(t, event.StartAt.Equal(got.StartAt))
	assert.Equal(t, *event.Location, *got.Location)

	repository.AssertNumberOfCalls(t, "find", 1)
}

func TestCache_FindNotFoundIsNotCached(t *testing.T) {
	mr, client := setupMiniredis(t)
	id := uuid.New()
	repository := &mockRepository{}
	repository.On("find", id).Return(nil, errdef.NewNotFound("event not found with id: %s", id))
	cache := NewCache(discardLogger, repository, client, time.Minute)

	_, err := cache.find(context.Background(), id)

	assert.True(t, errdef.IsNotFound(err))
	assert.False(t, mr.Exists(cacheKey(id)))
}

func TestCache_SaveEvicts(t *testing.T) {
	mr, client := setupMiniredis(t)
	event := newCachedEvent()
	require.NoError(t, mr.Set(cacheKey(event.ID), `{"title": "stale"}`))
	repository := &mockRepository{}
	repository.On("save", event).Return(nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	err := cache.save(context.Background(), event)

	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(event.ID)))
	repository.AssertExpectations(t)
}

func TestCache_DeleteEvicts(t *testing.T) {
	mr, client := setupMiniredis(t)
	id := uuid.New()
	require.NoError(t, mr.Set(cacheKey(id), `{"title": "stale"}`))
	repository := &mockRepository{}
	repository.On("delete", id).Return(nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	err := cache.delete(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(id)))
}

func TestCache_FailedWriteKeepsCache(t *testing.T) {
	mr, client := setupMiniredis(t)
	event := newCachedEvent()
	require.NoError(t, mr.Set(cacheKey(event.ID), `{"title": "cached"}`))
	repository := &mockRepository{}
	repository.On("save", event).Return(errors.New("failed to save event"))
	cache := NewCache(discardLogger, repository, client, time.Minute)

	err := cache.save(context.Background(), event)

	require.Error(t, err)
	assert.True(t, mr.Exists(cacheKey(event.ID)))
}

func TestCache_CorruptEntryFallsBackToRepository(t *testing.T) {
	mr, client := setupMiniredis(t)
	event := newCachedEvent()
	require.NoError(t, mr.Set(cacheKey(event.ID), `not json`))
	repository := &mockRepository{}
	repository.On("find", event.ID).Return(event, nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	got, err := cache.find(context.Background(), event.ID)

	require.NoError(t, err)
	assert.Equal(t, event, got)
	repository.AssertExpectations(t)
}

func TestCache_RedisDownFallsBackToRepository(t *testing.T) {
	mr, client := setupMiniredis(t)
	mr.Close()
	event := newCachedEvent()
	repository := &mockRepository{}
	repository.On("find", event.ID).Return(event, nil)
	repository.On("delete", event.ID).Return(nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	got, err := cache.find(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, event, got)

	err = cache.delete(context.Background(), event.ID)
	require.NoError(t, err)
}

func TestCache_PassesThroughRangeQueries(t *testing.T) {
	_, client := setupMiniredis(t)
	from := time.Date(2025, 9, 30, 21, 0, 0, 0, time.UTC)
	to := time.Date(2025, 10, 31, 22, 0, 0, 0, time.UTC)
	events := []model.Event{*newCachedEvent()}
	repository := &mockRepository{}
	repository.On("findByStartAtBetween", from, to).Return(events, nil)
	repository.On("create", mock.AnythingOfType("*model.Event")).Return(nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	got, err := cache.findByStartAtBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, events, got)

	require.NoError(t, cache.create(context.Background(), newCachedEvent()))
	repository.AssertExpectations(t)
}

func TestCache_SaveDuringFindIsNotOverwrittenWithStaleRead(t *testing.T) {
	mr, client := setupMiniredis(t)
	original := newCachedEvent()
	repository := newBlockingRepository(*original)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	type result struct {
		event *model.Event
		err   error
	}
	found := make(chan result, 1)
	go func() {
		event, err := cache.find(context.Background(), original.ID)
		found <- result{event, err}
	}()

	<-repository.reading
	updated := *original
	updated.Description = "Updated"
	require.NoError(t, cache.save(context.Background(), &updated))
	close(repository.release)

	stale := <-found
	require.NoError(t, stale.err)
	assert.Equal(t, "Weekly sync", stale.event.Description)
	assert.False(t, mr.Exists(cacheKey(original.ID)), "stale read must not be cached")

	got, err := cache.find(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
	assert.True(t, mr.Exists(cacheKey(original.ID)))

	got, err = cache.find(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
}

func TestCache_EvictBumpsGeneration(t *testing.T) {
	mr, client := setupMiniredis(t)
	id := uuid.New()
	repository := &mockRepository{}
	repository.On("delete", id).Return(nil)
	cache := NewCache(discardLogger, repository, client, time.Minute)

	require.NoError(t, cache.delete(context.Background(), id))
	require.NoError(t, cache.delete(context.Background(), id))

	generation, err := mr.Get(generationKey(id))
	require.NoError(t, err)
	assert.Equal(t, "2", generation)
	assert.True(t, mr.TTL(generationKey(id)) > time.Minute)
}

// blockingRepository holds a single event. The first find blocks after reading the event until
// release is closed.
type blockingRepository struct {
	mockRepository

	mu      sync.Mutex
	event   model.Event
	reading chan struct{}
	release chan struct{}
}

func newBlockingRepository(event model.Event) *blockingRepository {
	return &blockingRepository{
		event:   event,
		reading: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (r *blockingRepository) find(_ context.Context, _ uuid.UUID) (*model.Event, error) {
	r.mu.Lock()
	event := r.event
	r.mu.Unlock()

	select {
	case r.reading <- struct{}{}:
	default:
	}
	<-r.release

	return &event, nil
}

func (r *blockingRepository) save(_ context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.event = *event
	return nil
}
