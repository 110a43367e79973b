package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/completion"
	"github.com/rkipkemboi/portfolio-assistant/internal/model"
	"github.com/rkipkemboi/portfolio-assistant/internal/util"
)

// Chat answers a visitor prompt. Once the prompt validates, the response is
// always 200 with a usable message; provider trouble degrades to the echo
// fallback instead of surfacing an error.
func (h *handler) Chat(w http.ResponseWriter, req *http.Request) {
	var chatReq model.ChatRequest
	if err := json.NewDecoder(req.Body).Decode(&chatReq); err != nil {
		// An unreadable body is handled the same as an empty one.
		log.Debug().Err(err).Msg("failed to read chat request body")
	}

	prompt := strings.TrimSpace(chatReq.Prompt)
	if prompt == "" {
		util.SendMessage(w, "Prompt text is required.", http.StatusBadRequest)
		return
	}

	if h.ai == nil {
		util.SendMessage(w, completion.Fallback(prompt), http.StatusOK)
		return
	}

	result := h.ai.Complete(req.Context(), strings.TrimSpace(chatReq.System), prompt)
	if result.Source == completion.SourceFallback {
		log.Warn().Msg("serving fallback chat reply")
	}

	util.SendMessage(w, result.Message, http.StatusOK)
}
