package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultVoiceID is used when ELEVENLABS_VOICE_ID is not set.
const DefaultVoiceID = "aCo0MjC9VdNNVf8S6sq3"

type Config struct {
	Port string

	// OpenAIKey empty means the chat endpoint serves fallback replies only.
	OpenAIKey string

	// ElevenLabsKey empty means the voice endpoint answers 503.
	ElevenLabsKey string
	VoiceID       string

	// AllowedOrigins is the CORS allow-list. Empty means wildcard.
	AllowedOrigins []string
}

// Load reads configuration from the environment. A missing .env file and
// missing provider credentials are both fine; the server degrades instead of
// refusing to start.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on system environment variables")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		OpenAIKey:      strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		ElevenLabsKey:  strings.TrimSpace(getEnv("ELEVENLABS_API_KEY", "")),
		VoiceID:        strings.TrimSpace(getEnv("ELEVENLABS_VOICE_ID", DefaultVoiceID)),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
