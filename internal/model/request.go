package model

// ChatRequest is the body of POST /api/chat. System carries optional persona
// text; when empty the server substitutes its default persona.
type ChatRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
}

// SpeechRequest is the body of POST /api/voice.
type SpeechRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId,omitempty"`
}
