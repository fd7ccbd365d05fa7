package drafts

// MediaKind is the type of a single media attachment.
type MediaKind string

const (
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// MediaItem is one attachment referenced by its platform file ID.
type MediaItem struct {
	Kind   MediaKind
	FileID string
}

// State is the confirmation state of a draft.
type State int

const (
	// StateCollecting is the implicit state of a new draft.
	StateCollecting State = iota
	// StateAwaitingConfirmation means a confirm/reject prompt has been sent.
	StateAwaitingConfirmation
	// StateResolved is terminal; the draft is discarded right after.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Sender identifies who started the draft. Used for post logging only.
type Sender struct {
	UserID   int64
	Username string
}

// Draft is the pending, unconfirmed post of one conversation.
type Draft struct {
	Items           []MediaItem
	Caption         string
	MediaGroupID    string
	PromptSent      bool
	PromptMessageID int
	State           State
	Sender          Sender
	FirstMessageAt  int64
}

// HasCaption reports whether a caption was recorded.
func (d Draft) HasCaption() bool {
	return d.Caption != ""
}

func (d Draft) clone() Draft {
	c := d
	c.Items = append([]MediaItem(nil), d.Items...)
	return c
}
