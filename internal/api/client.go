// Package api is the client half of the assistant contract: it talks to the
// chat and voice proxy endpoints on behalf of the page controllers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rkipkemboi/portfolio-assistant/internal/model"
)

// StatusError is a non-2xx answer from either endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d", e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	chatURL    string
	voiceURL   string
}

// New builds a client for the given endpoint URLs. Either URL may be empty
// when the deployment leaves that feature unconfigured.
func New(chatURL, voiceURL string) *Client {
	return &Client{
		httpClient: http.DefaultClient,
		chatURL:    chatURL,
		voiceURL:   voiceURL,
	}
}

// HasChat reports whether a chat endpoint is configured.
func (c *Client) HasChat() bool { return c.chatURL != "" }

// HasVoice reports whether a voice endpoint is configured.
func (c *Client) HasVoice() bool { return c.voiceURL != "" }

// Chat sends a prompt with optional persona text and returns the reply
// message. A non-2xx answer comes back as *StatusError.
func (c *Client) Chat(ctx context.Context, prompt, system string) (string, error) {
	body, err := c.post(ctx, c.chatURL, model.ChatRequest{Prompt: prompt, System: system})
	if err != nil {
		return "", err
	}
	defer body.Close()

	var reply model.MessageResponse
	if err := json.NewDecoder(body).Decode(&reply); err != nil {
		return "", err
	}

	return reply.Message, nil
}

// Speech synthesizes text and returns the MPEG audio bytes.
func (c *Client) Speech(ctx context.Context, text, voiceID string) ([]byte, error) {
	body, err := c.post(ctx, c.voiceURL, model.SpeechRequest{Text: text, VoiceID: voiceID})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (io.ReadCloser, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
