package drafts

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendPreservesOrder(t *testing.T) {
	s := NewStore()
	items := []MediaItem{
		{Kind: MediaPhoto, FileID: "f1"},
		{Kind: MediaVideo, FileID: "f2"},
		{Kind: MediaDocument, FileID: "f3"},
		{Kind: MediaPhoto, FileID: "f1"},
	}
	for _, it := range items {
		s.AppendItem(42, it)
	}

	d, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, items, d.Items, "items must keep arrival order, duplicates included")
	assert.Equal(t, StateCollecting, d.State)
}

func TestStore_SetCaptionIfAbsent(t *testing.T) {
	s := NewStore()

	assert.False(t, s.SetCaptionIfAbsent(1, ""), "empty caption is ignored")
	_, ok := s.Get(1)
	assert.False(t, ok, "empty caption must not create a draft")

	assert.True(t, s.SetCaptionIfAbsent(1, "first"))
	assert.False(t, s.SetCaptionIfAbsent(1, "second"))

	d, _ := s.Get(1)
	assert.Equal(t, "first", d.Caption)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AppendItem(1, MediaItem{Kind: MediaPhoto, FileID: "a"})

	d, _ := s.Get(1)
	d.Items[0].FileID = "mutated"
	d.Caption = "mutated"

	fresh, _ := s.Get(1)
	assert.Equal(t, "a", fresh.Items[0].FileID)
	assert.Empty(t, fresh.Caption)
}

func TestStore_ClearAndIsolation(t *testing.T) {
	s := NewStore()
	s.AppendItem(1, MediaItem{Kind: MediaPhoto, FileID: "a"})
	s.AppendItem(2, MediaItem{Kind: MediaPhoto, FileID: "b"})

	s.Clear(1)

	_, ok := s.Get(1)
	assert.False(t, ok)
	d2, ok := s.Get(2)
	require.True(t, ok)
	assert.Len(t, d2.Items, 1)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	s.Update(7, func(d *Draft) {
		d.MediaGroupID = "g1"
		d.PromptSent = true
		d.State = StateAwaitingConfirmation
	})

	d, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, "g1", d.MediaGroupID)
	assert.True(t, d.PromptSent)
	assert.Equal(t, "awaiting_confirmation", d.State.String())
}

func TestStore_LockSerializesConversation(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(5)
			defer unlock()
			d, _ := s.Get(5)
			s.Update(5, func(cur *Draft) { cur.PromptMessageID = d.PromptMessageID + 1 })
		}()
	}
	wg.Wait()

	d, _ := s.Get(5)
	assert.Equal(t, 100, d.PromptMessageID, "read-modify-write under Lock must not lose updates")
}
