package elevenlab

import (
	"fmt"
	"net/http"
)

type TTSRequest struct {
	Text         string       `json:"text"`
	ModelID      string       `json:"model_id"`
	VoiceSetting VoiceSetting `json:"voice_settings"`
}

type VoiceSetting struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ErrorResponse mirrors the provider's structured error body.
type ErrorResponse struct {
	Detail ErrorDetail `json:"detail"`
}

type ErrorDetail struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("elevenlabs: %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("elevenlabs: unexpected status code %d", e.StatusCode)
}

// InvalidKey reports whether the provider rejected the configured credential.
func (e *APIError) InvalidKey() bool {
	return e.StatusCode == http.StatusUnauthorized && e.Status == "invalid_api_key"
}
