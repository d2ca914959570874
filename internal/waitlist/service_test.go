package waitlist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"campusevents/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWaitlistRepo struct {
	entriesFn  func(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error)
	positionFn func(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error)
	statsFn    func(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error)

	positionCalls int
}

func (f *fakeWaitlistRepo) Entries(ctx context.Context, eventID uuid.UUID) ([]WaitlistEntryResponse, error) {
	return f.entriesFn(ctx, eventID)
}

func (f *fakeWaitlistRepo) Position(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error) {
	f.positionCalls++
	return f.positionFn(ctx, eventID, userID)
}

func (f *fakeWaitlistRepo) Stats(ctx context.Context, eventID uuid.UUID) (*WaitlistStatsResponse, error) {
	return f.statsFn(ctx, eventID)
}

// fakeCache is an in-memory cache.Service storing JSON, mirroring the
// serialization behavior of the Redis-backed implementation.
type fakeCache struct {
	data    map[string][]byte
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.lastTTL = ttl
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) bool {
	_, ok := f.data[key]
	return ok
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func TestGetEntries_PassesThrough(t *testing.T) {
	eventID := uuid.New()
	repo := &fakeWaitlistRepo{
		entriesFn: func(ctx context.Context, id uuid.UUID) ([]WaitlistEntryResponse, error) {
			assert.Equal(t, eventID, id)
			return []WaitlistEntryResponse{
				{RegistrationID: uuid.New(), Position: 1, Quantity: 2},
				{RegistrationID: uuid.New(), Position: 2, Quantity: 1},
			}, nil
		},
	}

	svc := NewService(repo, nil)
	entries, err := svc.GetEntries(context.Background(), eventID)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Position)
}

func TestGetPosition_CachesResult(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()
	repo := &fakeWaitlistRepo{
		positionFn: func(ctx context.Context, eID, uID uuid.UUID) (*PositionResponse, error) {
			return &PositionResponse{EventID: eID, Position: 4, QueueLength: 7, Quantity: 2}, nil
		},
	}

	svc := NewService(repo, nil)
	svc.SetCacheService(newFakeCache())

	first, err := svc.GetPosition(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Position)

	second, err := svc.GetPosition(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, second.Position)

	assert.Equal(t, 1, repo.positionCalls, "second read must come from cache")
}

func TestGetPosition_UsesConfiguredTTL(t *testing.T) {
	repo := &fakeWaitlistRepo{
		positionFn: func(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error) {
			return &PositionResponse{EventID: eventID, Position: 1, QueueLength: 1, Quantity: 1}, nil
		},
	}

	svc := NewService(repo, &ServiceConfig{PositionTTL: 90 * time.Second})
	cached := newFakeCache()
	svc.SetCacheService(cached)

	_, err := svc.GetPosition(context.Background(), uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cached.lastTTL)
}

func TestGetPosition_NotWaitlisted(t *testing.T) {
	repo := &fakeWaitlistRepo{
		positionFn: func(ctx context.Context, eventID, userID uuid.UUID) (*PositionResponse, error) {
			return nil, ErrNotWaitlisted
		},
	}

	svc := NewService(repo, nil)
	_, err := svc.GetPosition(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotWaitlisted)
}

func TestGetStats_WorksWithoutCache(t *testing.T) {
	eventID := uuid.New()
	oldest := time.Now().Add(-time.Hour)
	repo := &fakeWaitlistRepo{
		statsFn: func(ctx context.Context, id uuid.UUID) (*WaitlistStatsResponse, error) {
			return &WaitlistStatsResponse{
				EventID:        id,
				TotalInQueue:   3,
				RequestedSeats: 6,
				OldestJoinedAt: &oldest,
				RemainingSeats: 0,
			}, nil
		},
	}

	svc := NewService(repo, nil)
	stats, err := svc.GetStats(context.Background(), eventID)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalInQueue)
	assert.Equal(t, 6, stats.RequestedSeats)
	assert.Equal(t, 0, stats.RemainingSeats)
}
