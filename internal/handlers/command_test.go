package handlers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"kgrelay-bot/internal/locales"
	"kgrelay-bot/pkg/telegoapi/telegoapitest"
)

func TestMain(m *testing.M) {
	locales.Init("ru")
	os.Exit(m.Run())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{text: "/start", want: "start", wantOK: true},
		{text: "/Start@kgrelay_bot now", want: "start", wantOK: true},
		{text: "/help me", want: "help", wantOK: true},
		{text: "/", wantOK: false},
		{text: "/@bot", wantOK: false},
		{text: "hello /start", wantOK: false},
		{text: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGetCommandHandler(t *testing.T) {
	h := NewCommandHandler()
	assert.NotNil(t, h.GetCommandHandler("start"))
	assert.NotNil(t, h.GetCommandHandler("help"))
	assert.Nil(t, h.GetCommandHandler("review"))
}

func TestHandleStart(t *testing.T) {
	bot := new(telegoapitest.MockBot)
	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *telego.SendMessageParams) bool {
		return p.ChatID.ID == 42 && p.Text == "Привет!"
	})).Return(&telego.Message{}, nil).Once()

	err := NewCommandHandler().HandleStart(context.Background(), bot, telego.Message{Chat: telego.Chat{ID: 42}})

	assert.NoError(t, err)
	bot.AssertExpectations(t)
}

func TestHandleHelp_SendError(t *testing.T) {
	bot := new(telegoapitest.MockBot)
	boom := errors.New("blocked by user")
	bot.On("SendMessage", mock.Anything, mock.Anything).Return(nil, boom).Once()

	err := NewCommandHandler().HandleHelp(context.Background(), bot, telego.Message{Chat: telego.Chat{ID: 42}})

	assert.ErrorIs(t, err, boom)
}

func TestSetupCommands(t *testing.T) {
	bot := new(telegoapitest.MockBot)
	bot.On("SetMyCommands", mock.Anything, mock.MatchedBy(func(p *telego.SetMyCommandsParams) bool {
		return len(p.Commands) == 2 &&
			p.Commands[0].Command == "start" && p.Commands[0].Description == "Запустить бота" &&
			p.Commands[1].Command == "help"
	})).Return(nil).Once()

	assert.NoError(t, NewCommandHandler().SetupCommands(context.Background(), bot))
	bot.AssertExpectations(t)
}
