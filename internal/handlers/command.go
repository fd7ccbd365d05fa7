package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"kgrelay-bot/internal/locales"
	"kgrelay-bot/pkg/telegoapi"
)

// CommandFunc handles one bot command.
type CommandFunc func(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error

// Command maps a command string to its description key and handler.
type Command struct {
	Command     string      // The command string without the slash (e.g., "start").
	Description string      // i18n message ID of the description.
	Handler     CommandFunc // The function to execute when the command is received.
}

// CommandHandler holds the commands users can send.
type CommandHandler struct {
	commands []Command
}

// NewCommandHandler creates a CommandHandler with /start and /help.
func NewCommandHandler() *CommandHandler {
	h := &CommandHandler{}
	h.commands = []Command{
		{Command: "start", Description: "CmdStartDescription", Handler: h.HandleStart},
		{Command: "help", Description: "CmdHelpDescription", Handler: h.HandleHelp},
	}
	return h
}

// ParseCommand extracts the command name from a message text such as
// "/start" or "/start@my_bot arg". ok is false for non-command text.
func ParseCommand(text string) (command string, ok bool) {
	if len(text) < 2 || !strings.HasPrefix(text, "/") {
		return "", false
	}
	command = strings.Fields(text)[0][1:]
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), command != ""
}

// GetCommandHandler returns the handler for command, or nil if it is unknown.
func (h *CommandHandler) GetCommandHandler(command string) CommandFunc {
	for _, cmd := range h.commands {
		if cmd.Command == command {
			return cmd.Handler
		}
	}
	return nil
}

// HandleStart replies with the greeting.
func (h *CommandHandler) HandleStart(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	return h.reply(ctx, bot, message.Chat.ID, "MsgStart")
}

// HandleHelp explains how to submit a post.
func (h *CommandHandler) HandleHelp(ctx context.Context, bot telegoapi.BotAPI, message telego.Message) error {
	return h.reply(ctx, bot, message.Chat.ID, "MsgHelp")
}

func (h *CommandHandler) reply(ctx context.Context, bot telegoapi.BotAPI, chatID int64, msgID string) error {
	text := locales.GetMessage(locales.DefaultLocalizer(), msgID, nil)
	if _, err := bot.SendMessage(ctx, tu.Message(tu.ID(chatID), text)); err != nil {
		return fmt.Errorf("send %s to chat %d: %w", msgID, chatID, err)
	}
	return nil
}

// SetupCommands registers the command list with Telegram, descriptions localized
// to the default language.
func (h *CommandHandler) SetupCommands(ctx context.Context, bot telegoapi.BotAPI) error {
	localizer := locales.DefaultLocalizer()

	commands := make([]telego.BotCommand, 0, len(h.commands))
	for _, cmd := range h.commands {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: locales.GetMessage(localizer, cmd.Description, nil),
		})
	}

	if err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	log.Printf("Successfully set %d bot commands.", len(commands))
	return nil
}
