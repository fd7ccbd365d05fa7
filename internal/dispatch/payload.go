// Package dispatch turns a confirmed draft into an outbound channel post.
package dispatch

import (
	"context"
	"fmt"

	"kgrelay-bot/internal/drafts"
)

// Translator translates a caption before it is published.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// PayloadKind tells the sender which platform call to use.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadText
	PayloadMediaGroup
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "text"
	case PayloadMediaGroup:
		return "media_group"
	default:
		return "none"
	}
}

// PayloadItem is one media entry of an outbound album.
type PayloadItem struct {
	Kind    drafts.MediaKind
	FileID  string
	Caption string
}

// Payload is the finalized content for the destination channel.
type Payload struct {
	Kind  PayloadKind
	Items []PayloadItem
	Text  string
}

// Builder assembles payloads, translating the caption on the way.
type Builder struct {
	translator Translator
}

// NewBuilder creates a Builder.
func NewBuilder(translator Translator) *Builder {
	return &Builder{translator: translator}
}

// Build maps the draft into a payload. The translated caption goes on the
// first item only. Without items the payload is the translated text, and
// without either it is PayloadNone. The translator is not called when the
// draft has no caption.
func (b *Builder) Build(ctx context.Context, draft drafts.Draft) (Payload, error) {
	var caption string
	if draft.HasCaption() {
		translated, err := b.translator.Translate(ctx, draft.Caption)
		if err != nil {
			return Payload{}, fmt.Errorf("translate caption: %w", err)
		}
		caption = translated
	}

	if len(draft.Items) == 0 {
		if caption == "" {
			return Payload{Kind: PayloadNone}, nil
		}
		return Payload{Kind: PayloadText, Text: caption}, nil
	}

	items := make([]PayloadItem, 0, len(draft.Items))
	for i, it := range draft.Items {
		item := PayloadItem{Kind: it.Kind, FileID: it.FileID}
		if i == 0 {
			item.Caption = caption
		}
		items = append(items, item)
	}
	return Payload{Kind: PayloadMediaGroup, Items: items}, nil
}
