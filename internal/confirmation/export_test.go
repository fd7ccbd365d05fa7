package confirmation

import "kgrelay-bot/internal/drafts"

// Draft returns a copy of the conversation's pending draft.
func (m *Manager) Draft(chatID int64) (drafts.Draft, bool) {
	return m.store.Get(chatID)
}
