package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func response(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
	}
}

func TestTranslate_SendsPromptAndTrims(t *testing.T) {
	client := new(mockCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4o" &&
			len(req.Messages) == 2 &&
			req.Messages[0].Role == openai.ChatMessageRoleSystem &&
			req.Messages[0].Content == SystemPrompt &&
			req.Messages[1].Role == openai.ChatMessageRoleUser &&
			req.Messages[1].Content == "Hello"
	})).Return(response("  Салам \n"), nil).Once()

	tr := NewWithClient(client, "gpt-4o", time.Second)
	got, err := tr.Translate(context.Background(), "Hello")

	require.NoError(t, err)
	assert.Equal(t, "Салам", got)
	client.AssertExpectations(t)
}

func TestTranslate_DefaultModel(t *testing.T) {
	client := new(mockCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == openai.GPT4o
	})).Return(response("ok"), nil).Once()

	_, err := NewWithClient(client, "", 0).Translate(context.Background(), "x")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestTranslate_BlankReplyIsPassedThrough(t *testing.T) {
	client := new(mockCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(response(" \n "), nil).Once()

	got, err := NewWithClient(client, "gpt-4o", time.Second).Translate(context.Background(), "Hello")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranslate_Errors(t *testing.T) {
	apiErr := errors.New("rate limited")

	tests := []struct {
		name    string
		resp    openai.ChatCompletionResponse
		err     error
		wantErr error
	}{
		{name: "api error", resp: openai.ChatCompletionResponse{}, err: apiErr, wantErr: apiErr},
		{name: "no choices", resp: openai.ChatCompletionResponse{}, wantErr: ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockCompleter)
			client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(tt.resp, tt.err).Once()

			_, err := NewWithClient(client, "gpt-4o", time.Second).Translate(context.Background(), "Hello")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
