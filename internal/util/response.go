package util

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/model"
)

// SendJSON writes payload as a JSON response with the given status.
func SendJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// SendMessage writes a {"message": ...} body with the given status.
func SendMessage(w http.ResponseWriter, message string, status int) {
	SendJSON(w, model.MessageResponse{Message: message}, status)
}
