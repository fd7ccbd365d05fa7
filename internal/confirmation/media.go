package confirmation

import (
	"github.com/mymmrac/telego"

	"kgrelay-bot/internal/drafts"
)

// mediaItems extracts the attachments of one message. For photos only the
// largest variant is kept.
func mediaItems(msg telego.Message) []drafts.MediaItem {
	var items []drafts.MediaItem
	if photo, ok := largestPhoto(msg.Photo); ok {
		items = append(items, drafts.MediaItem{Kind: drafts.MediaPhoto, FileID: photo.FileID})
	}
	if msg.Video != nil {
		items = append(items, drafts.MediaItem{Kind: drafts.MediaVideo, FileID: msg.Video.FileID})
	}
	if msg.Document != nil {
		items = append(items, drafts.MediaItem{Kind: drafts.MediaDocument, FileID: msg.Document.FileID})
	}
	return items
}

// largestPhoto picks the variant with the biggest file size, then the biggest area.
func largestPhoto(sizes []telego.PhotoSize) (telego.PhotoSize, bool) {
	if len(sizes) == 0 {
		return telego.PhotoSize{}, false
	}
	best := sizes[0]
	for _, p := range sizes[1:] {
		if p.FileSize > best.FileSize ||
			(p.FileSize == best.FileSize && p.Width*p.Height > best.Width*best.Height) {
			best = p
		}
	}
	return best, true
}

// messageText returns the caption, or the text for plain text messages.
func messageText(msg telego.Message) string {
	if msg.Caption != "" {
		return msg.Caption
	}
	return msg.Text
}
