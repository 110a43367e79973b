package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultMessage opens every fallback reply.
	DefaultMessage = "Thanks for reaching out! I'm happy to chat about frontend systems, full-stack builds, and projects."

	// FallbackPersona is the system prompt used when the caller supplies none.
	FallbackPersona = "You are Ronald Kipkemboi. Answer briefly about your skills in React, Java, and full-stack development."

	chatModel   = openai.GPT3Dot5Turbo
	maxTokens   = 250
	temperature = 0.8
)

// Source tells callers whether a reply came from the model or was degraded
// locally. The HTTP surface treats both as success.
type Source int

const (
	SourceModel Source = iota
	SourceFallback
)

// Result is a chat reply. Message is always non-empty.
type Result struct {
	Message string
	Source  Source
}

// Client produces a reply for every prompt; provider failures degrade into a
// fallback Result instead of an error.
type Client interface {
	Complete(ctx context.Context, system string, prompt string) Result
}

type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey)}
}

// NewOpenAIWithBaseURL points the client at an alternate API host.
func NewOpenAIWithBaseURL(apiKey, base string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = base
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// Fallback builds the echo-style reply used whenever a real completion is not
// available.
func Fallback(prompt string) string {
	return fmt.Sprintf("%s You asked: %q.", DefaultMessage, prompt)
}

func (c *OpenAI) Complete(ctx context.Context, system string, prompt string) Result {
	if system == "" {
		system = FallbackPersona
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		log.Error().Err(err).Msg("chat completion request failed")
		return Result{Message: Fallback(prompt), Source: SourceFallback}
	}

	if len(resp.Choices) == 0 {
		log.Warn().Msg("chat completion returned no choices")
		return Result{Message: Fallback(prompt), Source: SourceFallback}
	}

	message := strings.TrimSpace(resp.Choices[0].Message.Content)
	if message == "" {
		log.Warn().Msg("chat completion returned an empty message")
		return Result{Message: Fallback(prompt), Source: SourceFallback}
	}

	return Result{Message: message, Source: SourceModel}
}
