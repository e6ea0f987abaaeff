package weather

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 50*time.Millisecond))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	time.Sleep(100 * time.Millisecond)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "entry must expire at its ttl")
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	src := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", src, time.Minute))
	src[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	got[1] = 'y'
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryCache_Sweep(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	_ = c.Set(ctx, "short", []byte("1"), 20*time.Millisecond)
	_ = c.Set(ctx, "long", []byte("2"), time.Hour)
	assert.Equal(t, 2, c.Len())

	time.Sleep(60 * time.Millisecond)
	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Sweep())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			val := []byte(key)
			_ = c.Set(ctx, key, val, time.Minute)
			if got, ok, _ := c.Get(ctx, key); ok {
				assert.Equal(t, val, got, "cache returned a value for the wrong key")
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}

func TestNewJanitor_RejectsBadSchedule(t *testing.T) {
	_, err := NewJanitor(NewMemoryCache(), "not a schedule")
	assert.Error(t, err)

	j, err := NewJanitor(NewMemoryCache(), "@every 10m")
	require.NoError(t, err)
	assert.NotNil(t, j)
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	j, err := NewJanitor(NewMemoryCache(), "@every 1h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
