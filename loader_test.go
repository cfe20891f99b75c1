package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestGetOrLoad(t *testing.T) {
	cache := New[string, int](NoExpiration, 0)
	var calls atomic.Int64
	load := func(_ context.Context, key string) (int, error) {
		calls.Add(1)
		return len(key), nil
	}

	value, err := cache.GetOrLoad(context.Background(), `four`, DefaultExpiration, load)
	require.NoError(t, err)
	assert.Equal(t, 4, value)

	value, err = cache.GetOrLoad(context.Background(), `four`, DefaultExpiration, load)
	require.NoError(t, err)
	assert.Equal(t, 4, value)
	assert.Equal(t, int64(1), calls.Load())
}

func TestGetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	cache := New[string, string](NoExpiration, 0)
	var calls atomic.Int64
	release := make(chan struct{})
	load := func(_ context.Context, key string) (string, error) {
		calls.Add(1)
		<-release
		return key + `!`, nil
	}

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			value, err := cache.GetOrLoad(context.Background(), `k`, DefaultExpiration, load)
			if err != nil {
				return err
			}
			if value != `k!` {
				return errors.New(`unexpected value ` + value)
			}
			return nil
		})
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	close(release)

	require.NoError(t, g.Wait())
	assert.Equal(t, int64(1), calls.Load())
}

func TestGetOrLoad_Error(t *testing.T) {
	cache := New[string, int](NoExpiration, 0)
	errBackend := errors.New(`backend down`)

	_, err := cache.GetOrLoad(context.Background(), `k`, DefaultExpiration, func(context.Context, string) (int, error) {
		return 0, errBackend
	})
	require.ErrorIs(t, err, errBackend)
	assert.Zero(t, cache.ItemCount())
}

func TestGetOrLoad_ReloadsExpired(t *testing.T) {
	clock := newFakeClock()
	cache := New[string, int](NoExpiration, 0, WithClock(clock.Now))
	cache.Set(`k`, 1, For(time.Second))
	clock.Advance(time.Second)

	value, err := cache.GetOrLoad(context.Background(), `k`, NoExpiration, func(context.Context, string) (int, error) {
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, value)
	assertValue(t, cache, `k`, 2)
}

func TestGetOrLoad_CallerCancelled(t *testing.T) {
	cache := New[string, int](NoExpiration, 0)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	loaded := make(chan struct{})

	go func() {
		<-loaded
		cancel()
	}()
	_, err := cache.GetOrLoad(ctx, `k`, DefaultExpiration, func(ctx context.Context, _ string) (int, error) {
		close(loaded)
		<-release
		return 1, ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		_, ok := cache.Get(`k`)
		return ok
	}, time.Second, time.Millisecond, "load in flight is not cancelled with its caller")
}

func TestGetOrLoad_KeysOfDifferentTypesLoadSeparately(t *testing.T) {
	cache := New[any, string](NoExpiration, 0)
	started := make(chan struct{})
	release := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		value, err := cache.GetOrLoad(context.Background(), int(1), DefaultExpiration, func(context.Context, any) (string, error) {
			close(started)
			<-release
			return `int`, nil
		})
		if err != nil {
			return err
		}
		if value != `int` {
			return errors.New(`unexpected value ` + value)
		}
		return nil
	})
	<-started

	value, err := cache.GetOrLoad(context.Background(), int64(1), DefaultExpiration, func(context.Context, any) (string, error) {
		return `int64`, nil
	})
	require.NoError(t, err)
	assert.Equal(t, `int64`, value)
	assertValue[any, string](t, cache, int64(1), `int64`)

	close(release)
	require.NoError(t, g.Wait())
	assertValue[any, string](t, cache, int(1), `int`)
	assert.Equal(t, 2, cache.ItemCount())
}
