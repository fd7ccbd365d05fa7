// Package drafts holds per-conversation drafts awaiting confirmation.
package drafts

import (
	"sync"
)

// Store is an in-memory, conversation-keyed draft store.
// Drafts do not survive a restart.
type Store struct {
	mu     sync.Mutex
	drafts map[int64]*Draft
	locks  sync.Map // map[int64]*sync.Mutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{drafts: make(map[int64]*Draft)}
}

// Lock serializes work on one conversation and returns the unlock func.
// Callers hold it for the whole handling of an update, including I/O.
func (s *Store) Lock(conversationID int64) func() {
	v, _ := s.locks.LoadOrStore(conversationID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// draft returns the draft for conversationID, creating it if absent.
// s.mu must be held.
func (s *Store) draft(conversationID int64) *Draft {
	d, ok := s.drafts[conversationID]
	if !ok {
		d = &Draft{State: StateCollecting}
		s.drafts[conversationID] = d
	}
	return d
}

// AppendItem appends an item to the conversation's draft, creating the draft if needed.
// Order is preserved and duplicates are kept.
func (s *Store) AppendItem(conversationID int64, item MediaItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft(conversationID)
	d.Items = append(d.Items, item)
}

// SetCaptionIfAbsent records text as the caption unless one is already set.
// Empty text is ignored. It reports whether the caption was stored.
func (s *Store) SetCaptionIfAbsent(conversationID int64, text string) bool {
	if text == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft(conversationID)
	if d.Caption != "" {
		return false
	}
	d.Caption = text
	return true
}

// Update applies fn to the conversation's draft, creating it if needed.
func (s *Store) Update(conversationID int64, fn func(d *Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.draft(conversationID))
}

// Get returns a copy of the draft and whether it exists.
func (s *Store) Get(conversationID int64) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[conversationID]
	if !ok {
		return Draft{}, false
	}
	return d.clone(), true
}

// Clear discards the conversation's draft.
func (s *Store) Clear(conversationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, conversationID)
}
