package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/elevenlab"
	"github.com/rkipkemboi/portfolio-assistant/internal/model"
	"github.com/rkipkemboi/portfolio-assistant/internal/util"
)

// Speech synthesizes text through the provider and relays the audio stream.
// Configuration problems are reported as 503 with a generic message; the
// specifics stay in the server log.
func (h *handler) Speech(w http.ResponseWriter, req *http.Request) {
	var speechReq model.SpeechRequest
	if err := json.NewDecoder(req.Body).Decode(&speechReq); err != nil {
		log.Debug().Err(err).Msg("failed to read speech request body")
	}

	text := strings.TrimSpace(speechReq.Text)
	requestedVoice := strings.TrimSpace(speechReq.VoiceID)

	if text == "" {
		util.SendMessage(w, "Text is required.", http.StatusBadRequest)
		return
	}
	if requestedVoice != "" && requestedVoice != h.voiceID {
		util.SendMessage(w, "Invalid voice ID supplied.", http.StatusBadRequest)
		return
	}
	if h.voiceID == "" {
		util.SendMessage(w, "ElevenLabs voice ID is missing.", http.StatusBadRequest)
		return
	}

	if h.el == nil {
		log.Error().Msg("ElevenLabs API key is not configured, set the ELEVENLABS_API_KEY environment variable")
		util.SendMessage(w, "ElevenLabs API key is not configured on the server.", http.StatusServiceUnavailable)
		return
	}
	if !h.el.HasPlausibleKey() {
		log.Error().Msg("ElevenLabs API key appears to be invalid (too short), verify ELEVENLABS_API_KEY")
		util.SendMessage(w, "Voice service is not properly configured. Please contact the site administrator.", http.StatusServiceUnavailable)
		return
	}

	stream, err := h.el.TextToSpeech(req.Context(), text, h.voiceID)
	if err != nil {
		var apiErr *elevenlab.APIError
		if !errors.As(err, &apiErr) {
			log.Error().Err(err).Msg("failed to reach ElevenLabs")
			util.SendMessage(w, "Unable to reach ElevenLabs.", http.StatusBadGateway)
			return
		}

		log.Error().
			Int("status", apiErr.StatusCode).
			Str("provider_status", apiErr.Status).
			Str("provider_message", apiErr.Message).
			Msg("ElevenLabs request failed")

		if apiErr.InvalidKey() {
			util.SendMessage(w, "Voice service is temporarily unavailable. Please contact the site administrator.", http.StatusServiceUnavailable)
			return
		}

		util.SendMessage(w, "ElevenLabs request failed.", apiErr.StatusCode)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		log.Error().Err(err).Msg("failed to relay audio stream")
	}
}
