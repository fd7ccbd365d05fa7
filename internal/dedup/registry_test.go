package dedup

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_IsProcessed(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsProcessed("album-1"), "first sighting should not be processed")
	assert.True(t, r.IsProcessed("album-1"), "second sighting should be processed")
	assert.False(t, r.IsProcessed("album-2"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	r.IsProcessed("album-1")

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.False(t, r.IsProcessed("album-1"), "cleared ID should be unseen again")
	assert.True(t, r.IsProcessed("album-1"))
}

func TestRegistry_ConcurrentFirstSighting(t *testing.T) {
	r := NewRegistry()

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !r.IsProcessed("album") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, firsts, "exactly one caller must observe the first sighting")
}

func TestRegistry_ManyIDs(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 100; i++ {
		assert.False(t, r.IsProcessed(fmt.Sprintf("g%d", i)))
	}
	assert.Equal(t, 100, r.Len())
}
