package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"kgrelay-bot/internal/drafts"
	"kgrelay-bot/pkg/telegoapi"
)

// MaxMediaGroupSize is the largest album the platform accepts in one call.
const MaxMediaGroupSize = 10

// Receipt describes what was published.
type Receipt struct {
	// ChannelPostID is the message ID of the first published message, 0 if nothing was sent.
	ChannelPostID int
	Messages      int
}

// Sender publishes payloads to the fixed destination channel.
type Sender struct {
	bot       telegoapi.BotAPI
	channelID int64
}

// NewSender creates a Sender for channelID.
func NewSender(bot telegoapi.BotAPI, channelID int64) *Sender {
	return &Sender{bot: bot, channelID: channelID}
}

// Send publishes payload. One-item albums go out with the matching single
// media call and albums over MaxMediaGroupSize are split into consecutive groups.
func (s *Sender) Send(ctx context.Context, payload Payload) (Receipt, error) {
	switch payload.Kind {
	case PayloadNone:
		return Receipt{}, nil
	case PayloadText:
		msg, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.channelID), payload.Text))
		if err != nil {
			return Receipt{}, fmt.Errorf("send text to channel %d: %w", s.channelID, err)
		}
		return Receipt{ChannelPostID: msg.MessageID, Messages: 1}, nil
	case PayloadMediaGroup:
		if len(payload.Items) == 1 {
			return s.sendSingle(ctx, payload.Items[0])
		}
		return s.sendGroups(ctx, payload.Items)
	default:
		return Receipt{}, fmt.Errorf("unknown payload kind %d", payload.Kind)
	}
}

func (s *Sender) sendGroups(ctx context.Context, items []PayloadItem) (Receipt, error) {
	var receipt Receipt
	for _, bounds := range albumChunks(len(items)) {
		start, end := bounds[0], bounds[1]
		chunk := items[start:end]

		media := make([]telego.InputMedia, 0, len(chunk))
		for _, it := range chunk {
			media = append(media, inputMedia(it))
		}

		sent, err := s.bot.SendMediaGroup(ctx, tu.MediaGroup(tu.ID(s.channelID), media...))
		if err != nil {
			return receipt, fmt.Errorf("send media group (items %d-%d) to channel %d: %w", start, end-1, s.channelID, err)
		}
		if receipt.ChannelPostID == 0 && len(sent) > 0 {
			receipt.ChannelPostID = sent[0].MessageID
		}
		receipt.Messages += len(sent)
	}
	log.Printf("[Dispatch Channel:%d] Published %d media item(s) as %d message(s)", s.channelID, len(items), receipt.Messages)
	return receipt, nil
}

// albumChunks splits n items (n >= 2) into [start, end) ranges of at most
// MaxMediaGroupSize items. The platform rejects one-item albums, so a trailing
// single item borrows one from the previous chunk (10+1 becomes 9+2).
func albumChunks(n int) [][2]int {
	var chunks [][2]int
	for start := 0; start < n; start += MaxMediaGroupSize {
		chunks = append(chunks, [2]int{start, min(start+MaxMediaGroupSize, n)})
	}
	if last := len(chunks) - 1; last > 0 && chunks[last][1]-chunks[last][0] == 1 {
		chunks[last-1][1]--
		chunks[last][0]--
	}
	return chunks
}

func (s *Sender) sendSingle(ctx context.Context, it PayloadItem) (Receipt, error) {
	chatID := tu.ID(s.channelID)
	file := tu.FileFromID(it.FileID)

	var (
		msg *telego.Message
		err error
	)
	switch it.Kind {
	case drafts.MediaVideo:
		params := tu.Video(chatID, file)
		params.Caption = it.Caption
		msg, err = s.bot.SendVideo(ctx, params)
	case drafts.MediaDocument:
		params := tu.Document(chatID, file)
		params.Caption = it.Caption
		msg, err = s.bot.SendDocument(ctx, params)
	default:
		params := tu.Photo(chatID, file)
		params.Caption = it.Caption
		msg, err = s.bot.SendPhoto(ctx, params)
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("send %s to channel %d: %w", it.Kind, s.channelID, err)
	}
	return Receipt{ChannelPostID: msg.MessageID, Messages: 1}, nil
}

func inputMedia(it PayloadItem) telego.InputMedia {
	file := tu.FileFromID(it.FileID)
	switch it.Kind {
	case drafts.MediaVideo:
		m := tu.MediaVideo(file)
		m.Caption = it.Caption
		return m
	case drafts.MediaDocument:
		m := tu.MediaDocument(file)
		m.Caption = it.Caption
		return m
	default:
		m := tu.MediaPhoto(file)
		m.Caption = it.Caption
		return m
	}
}
