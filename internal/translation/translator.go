// Package translation translates post captions through an OpenAI chat model.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// SystemPrompt instructs the model to translate into Kyrgyz.
const SystemPrompt = "You are a professional translator. Please translate the following text to Kyrgyz. " +
	"Ensure that the translation is accurate and maintains the original meaning and tone."

// ErrEmptyResponse is returned when the model answers with no choices.
var ErrEmptyResponse = errors.New("translation: empty response")

// ChatCompleter is the subset of *openai.Client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Translator calls the chat model once per caption. No retries.
type Translator struct {
	client  ChatCompleter
	model   string
	timeout time.Duration
}

// New creates a Translator backed by the OpenAI API.
func New(apiKey, model string, timeout time.Duration) *Translator {
	return NewWithClient(openai.NewClient(apiKey), model, timeout)
}

// NewWithClient creates a Translator with a custom chat client.
func NewWithClient(client ChatCompleter, model string, timeout time.Duration) *Translator {
	if model == "" {
		model = openai.GPT4o
	}
	return &Translator{client: client, model: model, timeout: timeout}
}

// Translate returns text translated to Kyrgyz, trimmed of surrounding whitespace.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	// A blank reply is passed through; the post then goes out without a caption.
	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Printf("[Translator Model:%s] Translated %d chars into %d chars", t.model, len(text), len(translated))
	return translated, nil
}
