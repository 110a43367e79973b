package elevenlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client interface {
	TextToSpeech(ctx context.Context, input string, voice string) (io.ReadCloser, error)
	HasPlausibleKey() bool
}

type ElevenLab struct {
	apiKey     string
	baseURL    string
	ttsModel   string
	httpClient *http.Client
}

const (
	baseURL  = "https://api.elevenlabs.io/v1"
	ttsModel = "eleven_multilingual_v2"

	// MinKeyLength is the shortest credential worth sending upstream.
	// ElevenLabs keys are longer; anything shorter is a misconfiguration.
	MinKeyLength = 20
)

var defaultVoiceSetting = VoiceSetting{
	Stability:       0.4,
	SimilarityBoost: 0.85,
}

func NewElevenLab(apiKey string) *ElevenLab {
	return &ElevenLab{
		apiKey:     apiKey,
		baseURL:    baseURL,
		ttsModel:   ttsModel,
		httpClient: http.DefaultClient,
	}
}

// NewElevenLabWithBaseURL points the client at an alternate API host.
func NewElevenLabWithBaseURL(apiKey, base string) *ElevenLab {
	c := NewElevenLab(apiKey)
	c.baseURL = base
	return c
}

// HasPlausibleKey reports whether the configured credential passes the
// minimum-length sanity check.
func (c *ElevenLab) HasPlausibleKey() bool {
	return len(strings.TrimSpace(c.apiKey)) >= MinKeyLength
}

// TextToSpeech synthesizes input with the given voice and returns the raw
// audio stream. The caller owns the returned body. Provider rejections come
// back as *APIError; transport failures are returned as-is.
func (c *ElevenLab) TextToSpeech(ctx context.Context, input string, voice string) (io.ReadCloser, error) {
	reqURL, err := url.JoinPath(c.baseURL, "text-to-speech", voice)
	if err != nil {
		return nil, err
	}

	ttsReq := TTSRequest{
		Text:         input,
		ModelID:      c.ttsModel,
		VoiceSetting: defaultVoiceSetting,
	}

	body, err := json.Marshal(ttsReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}

	return resp.Body, nil
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var detail ErrorResponse
	if err := json.Unmarshal(raw, &detail); err != nil {
		apiErr.Message = fmt.Sprintf("unparseable error body (%d bytes)", len(raw))
		return apiErr
	}

	apiErr.Status = detail.Detail.Status
	apiErr.Message = detail.Detail.Message

	return apiErr
}
