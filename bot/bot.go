package bot

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"go.uber.org/ratelimit"

	"kgrelay-bot/internal/confirmation"
	"kgrelay-bot/internal/handlers"
	"kgrelay-bot/pkg/telegoapi"
)

const (
	// updateTimeout bounds the handling of one update, translation included.
	updateTimeout = 2 * time.Minute
	// updatesPerSecond throttles inbound update processing.
	updatesPerSecond = 20
)

// ConfirmationManager is the draft workflow the bot routes content and callbacks to.
type ConfirmationManager interface {
	HandleMessage(ctx context.Context, msg telego.Message) confirmation.Result
	HandleCallback(ctx context.Context, query telego.CallbackQuery) confirmation.Result
}

// Bot wraps the telego API, runs the update loop and routes updates to
// command handlers and the confirmation workflow.
type Bot struct {
	bot         telegoapi.BotAPI
	updatesChan <-chan telego.Update
	debug       bool
	commands    *handlers.CommandHandler
	confirm     ConfirmationManager
	ratelimiter ratelimit.Limiter
}

// BotDeps holds the dependencies required by the Bot.
type BotDeps struct {
	Bot          telegoapi.BotAPI
	UpdatesChan  <-chan telego.Update
	Debug        bool
	Commands     *handlers.CommandHandler
	Confirmation ConfirmationManager
}

// New creates a new Bot instance from its dependencies.
func New(deps BotDeps) (*Bot, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("telego bot (BotAPI) instance cannot be nil")
	}
	if deps.Commands == nil {
		return nil, fmt.Errorf("command handler cannot be nil")
	}
	if deps.Confirmation == nil {
		return nil, fmt.Errorf("confirmation manager cannot be nil")
	}
	if deps.UpdatesChan == nil {
		return nil, fmt.Errorf("updates channel cannot be nil")
	}

	return &Bot{
		bot:         deps.Bot,
		updatesChan: deps.UpdatesChan,
		debug:       deps.Debug,
		commands:    deps.Commands,
		confirm:     deps.Confirmation,
		ratelimiter: ratelimit.New(updatesPerSecond),
	}, nil
}

// Prepare drops the webhook with any pending updates and registers the command list.
// It must run before long polling starts.
func Prepare(ctx context.Context, api telegoapi.BotAPI, commands *handlers.CommandHandler) error {
	if err := api.DeleteWebhook(ctx, &telego.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if err := commands.SetupCommands(ctx, api); err != nil {
		// Not fatal: the bot works without the command menu.
		log.Printf("Warning: %v", err)
		sentry.CaptureException(err)
	}
	return nil
}

// handleCommandUpdate processes a message identified as a command.
// Unknown commands are dropped rather than collected as post content.
func (b *Bot) handleCommandUpdate(ctx context.Context, message telego.Message, command string) {
	logPrefix := fmt.Sprintf("[Cmd:%s User:%d]", command, message.From.ID)

	handlerFunc := b.commands.GetCommandHandler(command)
	if handlerFunc == nil {
		log.Printf("%s No handler found", logPrefix)
		return
	}
	if b.debug {
		log.Printf("%s Executing handler", logPrefix)
	}
	if err := handlerFunc(ctx, b.bot, message); err != nil {
		log.Printf("%s Handler error: %v", logPrefix, err)
		sentry.CaptureException(fmt.Errorf("%s handler error: %w", logPrefix, err))
	}
}

// handleContentUpdate hands a non-command message to the confirmation workflow.
// Failures are logged and reported, never shown to the user.
func (b *Bot) handleContentUpdate(ctx context.Context, message telego.Message) {
	logPrefix := fmt.Sprintf("[Content User:%d Msg:%d]", message.From.ID, message.MessageID)

	res := b.confirm.HandleMessage(ctx, message)
	if res.Err != nil {
		log.Printf("%s Confirmation workflow error (%s): %v", logPrefix, res.Action, res.Err)
		sentry.CaptureException(fmt.Errorf("%s confirmation workflow error: %w", logPrefix, res.Err))
		return
	}
	if b.debug {
		log.Printf("%s Result: %s", logPrefix, res.Action)
	}
}

// handleCallbackQuery processes an incoming callback query.
func (b *Bot) handleCallbackQuery(ctx context.Context, query telego.CallbackQuery) {
	logPrefix := fmt.Sprintf("[Callback User:%d QueryID:%s]", query.From.ID, query.ID)
	if !confirmation.IsConfirmationCallback(query.Data) {
		if b.debug {
			log.Printf("%s Ignoring callback data %q", logPrefix, query.Data)
		}
		return
	}

	res := b.confirm.HandleCallback(ctx, query)
	if res.Err != nil {
		log.Printf("%s Confirmation callback error (%s): %v", logPrefix, res.Action, res.Err)
		sentry.CaptureException(fmt.Errorf("%s confirmation callback error: %w", logPrefix, res.Err))
		return
	}
	log.Printf("%s Result: %s", logPrefix, res.Action)
}

// processUpdate routes incoming updates to the appropriate handlers.
func (b *Bot) processUpdate(ctx context.Context, update telego.Update) {
	b.ratelimiter.Take()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC recovered in processUpdate: %v\n%s", r, debug.Stack())
			sentry.CurrentHub().Recover(r)
			sentry.Flush(time.Second * 2)
		}
	}()

	processingCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	switch {
	case update.Message != nil:
		message := *update.Message
		if message.From == nil {
			log.Printf("Ignoring message %d from chat %d without sender", message.MessageID, message.Chat.ID)
			return
		}
		if command, ok := handlers.ParseCommand(message.Text); ok {
			b.handleCommandUpdate(processingCtx, message, command)
			return
		}
		b.handleContentUpdate(processingCtx, message)

	case update.CallbackQuery != nil:
		b.handleCallbackQuery(processingCtx, *update.CallbackQuery)

	default:
		if b.debug {
			log.Printf("Ignoring unhandled update type: %+v", update)
		}
	}
}

// Start runs the update loop until ctx is cancelled or the updates channel closes.
// Each update gets its own goroutine; the confirmation workflow serializes
// updates that touch the same conversation.
func (b *Bot) Start(ctx context.Context) {
	log.Println("Listening for updates...")

	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		log.Println("All update processing finished.")
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Context done, stopping update processing...")
			return
		case update, ok := <-b.updatesChan:
			if !ok {
				log.Println("Updates channel closed.")
				return
			}
			wg.Add(1)
			go func(up telego.Update) {
				defer wg.Done()
				// Detached from ctx so in-flight work finishes during shutdown.
				b.processUpdate(context.WithoutCancel(ctx), up)
			}(update)
		}
	}
}
