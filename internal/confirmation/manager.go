// Package confirmation runs the collect / confirm / dispatch workflow for
// posts headed to the destination channel.
package confirmation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"kgrelay-bot/internal/database"
	"kgrelay-bot/internal/database/models"
	"kgrelay-bot/internal/dispatch"
	"kgrelay-bot/internal/drafts"
	"kgrelay-bot/internal/locales"
	"kgrelay-bot/pkg/telegoapi"
)

// Callback data carried by the prompt buttons.
const (
	CallbackConfirm = "confirm_yes"
	CallbackReject  = "confirm_no"
)

// IsConfirmationCallback reports whether data belongs to a confirmation prompt.
func IsConfirmationCallback(data string) bool {
	return data == CallbackConfirm || data == CallbackReject
}

// AlbumRegistry remembers which media groups already produced a prompt.
type AlbumRegistry interface {
	IsProcessed(groupID string) bool
}

// Manager owns the per-conversation drafts and drives each one from
// collecting to awaiting confirmation to resolved. All work on one
// conversation is serialized through the store's conversation lock.
type Manager struct {
	bot        telegoapi.BotAPI
	store      *drafts.Store
	registry   AlbumRegistry
	builder    *dispatch.Builder
	sender     *dispatch.Sender
	postLogger database.PostLogger
	channelID  int64
	debug      bool
}

// Deps holds the dependencies required by the Manager.
type Deps struct {
	Bot        telegoapi.BotAPI
	Store      *drafts.Store
	Registry   AlbumRegistry
	Translator dispatch.Translator
	PostLogger database.PostLogger
	ChannelID  int64
	Debug      bool
}

// NewManager creates a Manager from its dependencies.
func NewManager(deps Deps) (*Manager, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("bot API cannot be nil")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("album registry cannot be nil")
	}
	if deps.Translator == nil {
		return nil, fmt.Errorf("translator cannot be nil")
	}
	if deps.ChannelID == 0 {
		return nil, fmt.Errorf("channel ID cannot be zero")
	}
	store := deps.Store
	if store == nil {
		store = drafts.NewStore()
	}
	postLogger := deps.PostLogger
	if postLogger == nil {
		postLogger = database.NopPostLogger{}
	}
	return &Manager{
		bot:        deps.Bot,
		store:      store,
		registry:   deps.Registry,
		builder:    dispatch.NewBuilder(deps.Translator),
		sender:     dispatch.NewSender(deps.Bot, deps.ChannelID),
		postLogger: postLogger,
		channelID:  deps.ChannelID,
		debug:      deps.Debug,
	}, nil
}

// HandleMessage adds the message's media and caption to the conversation's
// draft and sends the confirmation prompt when this message opens the post.
//
// A message without a media group prompts right away. An album message
// prompts only when it is the first to set the draft's media group ID and
// the registry has not seen that group. Messages from a different media
// group than the one recorded on the draft are dropped.
func (m *Manager) HandleMessage(ctx context.Context, msg telego.Message) Result {
	chatID := msg.Chat.ID
	logPrefix := fmt.Sprintf("[Confirm Chat:%d Msg:%d]", chatID, msg.MessageID)

	unlock := m.store.Lock(chatID)
	defer unlock()

	items := mediaItems(msg)
	caption := messageText(msg)
	if len(items) == 0 && caption == "" {
		if m.debug {
			log.Printf("%s No supported content, ignoring", logPrefix)
		}
		return Result{Action: ActionIgnored}
	}

	draft, _ := m.store.Get(chatID)
	groupID := msg.MediaGroupID
	if groupID != "" && draft.MediaGroupID != "" && groupID != draft.MediaGroupID {
		if m.debug {
			log.Printf("%s Media group %s does not match draft group %s, ignoring", logPrefix, groupID, draft.MediaGroupID)
		}
		return Result{Action: ActionIgnored}
	}

	for _, item := range items {
		m.store.AppendItem(chatID, item)
	}
	m.store.SetCaptionIfAbsent(chatID, caption)
	m.store.Update(chatID, func(d *drafts.Draft) {
		if d.Sender.UserID == 0 && msg.From != nil {
			d.Sender = drafts.Sender{UserID: msg.From.ID, Username: msg.From.Username}
		}
		if d.FirstMessageAt == 0 {
			d.FirstMessageAt = int64(msg.Date)
		}
	})

	opensPost := false
	switch {
	case groupID == "":
		opensPost = true
	case draft.MediaGroupID == "":
		if !m.registry.IsProcessed(groupID) {
			m.store.Update(chatID, func(d *drafts.Draft) { d.MediaGroupID = groupID })
			opensPost = true
		} else if m.debug {
			log.Printf("%s Media group %s already processed", logPrefix, groupID)
		}
	}

	if !opensPost || draft.PromptSent || draft.State != drafts.StateCollecting {
		return Result{Action: ActionCollected}
	}

	promptID, err := m.sendPrompt(ctx, chatID)
	if err != nil {
		log.Printf("%s Failed to send confirmation prompt: %v", logPrefix, err)
		return failed(fmt.Errorf("send confirmation prompt: %w", err))
	}
	m.store.Update(chatID, func(d *drafts.Draft) {
		d.PromptSent = true
		d.PromptMessageID = promptID
		d.State = drafts.StateAwaitingConfirmation
	})
	log.Printf("%s Confirmation prompt %d sent", logPrefix, promptID)
	return Result{Action: ActionPrompted}
}

func (m *Manager) sendPrompt(ctx context.Context, chatID int64) (int, error) {
	localizer := locales.DefaultLocalizer()
	keyboard := tu.InlineKeyboard(
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnConfirm", nil)).WithCallbackData(CallbackConfirm)),
		tu.InlineKeyboardRow(tu.InlineKeyboardButton(locales.GetMessage(localizer, "BtnReject", nil)).WithCallbackData(CallbackReject)),
	)
	text := locales.GetMessage(localizer, "MsgConfirmPrompt", nil)

	sent, err := m.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithReplyMarkup(keyboard))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// HandleCallback resolves the conversation's draft from a prompt button.
// Confirm translates and publishes the draft, reject discards it. Either
// way the callback is answered, an outcome notice is posted and the draft
// is cleared.
func (m *Manager) HandleCallback(ctx context.Context, query telego.CallbackQuery) Result {
	if !IsConfirmationCallback(query.Data) {
		return Result{Action: ActionIgnored}
	}
	chatID := callbackChatID(query)
	logPrefix := fmt.Sprintf("[Confirm Chat:%d Callback:%s]", chatID, query.Data)

	unlock := m.store.Lock(chatID)
	defer unlock()

	if err := m.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: query.ID}); err != nil {
		log.Printf("%s Failed to answer callback query: %v", logPrefix, err)
	}

	draft, _ := m.store.Get(chatID)
	m.store.Update(chatID, func(d *drafts.Draft) { d.State = drafts.StateResolved })
	defer m.store.Clear(chatID)
	m.removePromptKeyboard(ctx, chatID, draft.PromptMessageID)

	if query.Data == CallbackReject {
		log.Printf("%s Draft rejected (%d item(s))", logPrefix, len(draft.Items))
		return Result{Action: ActionRejected, Err: m.notify(ctx, chatID, "MsgPostNotSent")}
	}

	payload, receipt, err := m.dispatch(ctx, draft)
	if err != nil {
		log.Printf("%s Dispatch failed: %v", logPrefix, err)
		if notifyErr := m.notify(ctx, chatID, "MsgPostNotSent"); notifyErr != nil {
			log.Printf("%s %v", logPrefix, notifyErr)
		}
		return failed(err)
	}
	log.Printf("%s Draft dispatched as %s", logPrefix, payload.Kind)

	if payload.Kind != dispatch.PayloadNone {
		m.logPost(ctx, logPrefix, draft, payload, receipt)
	}
	return Result{Action: ActionDispatched, Err: m.notify(ctx, chatID, "MsgPostSent")}
}

func (m *Manager) dispatch(ctx context.Context, draft drafts.Draft) (dispatch.Payload, dispatch.Receipt, error) {
	payload, err := m.builder.Build(ctx, draft)
	if err != nil {
		return payload, dispatch.Receipt{}, err
	}
	receipt, err := m.sender.Send(ctx, payload)
	if err != nil {
		return payload, receipt, err
	}
	return payload, receipt, nil
}

func (m *Manager) logPost(ctx context.Context, logPrefix string, draft drafts.Draft, payload dispatch.Payload, receipt dispatch.Receipt) {
	entry := models.PostLog{
		SenderID:             draft.Sender.UserID,
		SenderUsername:       draft.Sender.Username,
		Caption:              draft.Caption,
		MessageType:          payload.Kind.String(),
		ItemCount:            len(payload.Items),
		ReceivedAt:           time.Unix(draft.FirstMessageAt, 0),
		PublishedAt:          time.Now(),
		ChannelID:            m.channelID,
		ChannelPostID:        receipt.ChannelPostID,
		OriginalMediaGroupID: draft.MediaGroupID,
	}
	if payload.Kind == dispatch.PayloadText {
		entry.TranslatedCaption = payload.Text
	} else if len(payload.Items) > 0 {
		entry.TranslatedCaption = payload.Items[0].Caption
	}
	if err := m.postLogger.LogPublishedPost(ctx, entry); err != nil {
		log.Printf("%s Failed to log published post: %v", logPrefix, err)
	}
}

func (m *Manager) notify(ctx context.Context, chatID int64, msgID string) error {
	text := locales.GetMessage(locales.DefaultLocalizer(), msgID, nil)
	if _, err := m.bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("send outcome notice %s: %w", msgID, err)
	}
	return nil
}

func (m *Manager) removePromptKeyboard(ctx context.Context, chatID int64, promptID int) {
	if promptID == 0 {
		return
	}
	_, err := m.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:    tu.ID(chatID),
		MessageID: promptID,
	})
	if err != nil {
		log.Printf("[Confirm Chat:%d] Failed to remove keyboard from prompt %d: %v", chatID, promptID, err)
	}
}

func callbackChatID(query telego.CallbackQuery) int64 {
	switch msg := query.Message.(type) {
	case *telego.Message:
		if msg != nil {
			return msg.Chat.ID
		}
	case *telego.InaccessibleMessage:
		if msg != nil {
			return msg.Chat.ID
		}
	}
	return query.From.ID
}
