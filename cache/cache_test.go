package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](1 * time.Second)

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)
}

func TestCache_Expiration(t *testing.T) {
	c := New[string](100 * time.Millisecond)

	c.Set("key1", "value1")

	_, found := c.Get("key1")
	assert.True(t, found, "Expected to find key1 immediately")

	time.Sleep(150 * time.Millisecond)

	_, found = c.Get("key1")
	assert.False(t, found, "Expected key1 to be expired")
}

func TestCache_NoTTLNeverExpires(t *testing.T) {
	c := New[int](0)
	c.Set("k", 7)
	time.Sleep(10 * time.Millisecond)

	v, found := c.Get("k")
	assert.True(t, found)
	assert.Equal(t, 7, v)
}

func TestCache_Clear(t *testing.T) {
	c := New[string](1 * time.Second)

	c.Set("key1", "value1")
	c.Clear("key1")

	_, found := c.Get("key1")
	assert.False(t, found)
}

func TestCache_GetOrLoadDeduplicates(t *testing.T) {
	c := New[int](0)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func() (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("baseline", load)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, int32(1), calls.Load())

	// Later calls hit the cache
	v, err := c.GetOrLoad("baseline", func() (int, error) { return 0, errors.New("should not load") })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := New[int](0)
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.GetOrLoad("k", func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
