package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{ err error }

func (f failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error { return f.err }

func (f failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return f.err
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	var nilService *CacheService
	assert.False(t, nilService.Enabled())

	hit, err := nilService.Get(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, nilService.Set(context.Background(), "k", 1, 0))

	disabled := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
}

func TestCacheServiceHitMissAndMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "catalog:filters", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "catalog:filters", []string{"a"}, 0))
	hit, err = svc.Get(context.Background(), "catalog:filters", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, out)

	hit, _ = svc.Get(context.Background(), "catalog:other", &out)
	assert.False(t, hit)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(2), snap.CacheMisses)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("redis down")
	svc := NewCacheService(failingCacheRepo{err: boom}, nil, 0, nil, true)

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.Set(context.Background(), "k", 1, 0), boom)
}

func TestCachedLoadFallsBackWhenBackendFails(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{err: errors.New("redis down")}, nil, 0, nil, true)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"fresh"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := cachedLoad(context.Background(), svc, "catalog:filters", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"fresh"}, got)
	}
	assert.Equal(t, 2, calls)
}

func TestCachedLoadDoesNotStoreErrors(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, true)
	boom := errors.New("db down")

	_, err := cachedLoad(context.Background(), svc, "catalog:filters", 0, func(context.Context) (*struct{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, repo.sets)
}
