package handler

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/rkipkemboi/portfolio-assistant/internal/completion"
	"github.com/rkipkemboi/portfolio-assistant/internal/elevenlab"
	"github.com/rkipkemboi/portfolio-assistant/internal/middleware"
	"github.com/rkipkemboi/portfolio-assistant/internal/util"
)

type handler struct {
	ai      completion.Client // nil when no completion credential is configured
	el      elevenlab.Client  // nil when no speech credential is configured
	voiceID string
}

// NewRouter wires the chat and voice endpoints with CORS and request logging.
// Either client may be nil; the endpoints degrade rather than fail to mount.
func NewRouter(ai completion.Client, el elevenlab.Client, voiceID string, allowedOrigins []string) http.Handler {
	h := &handler{
		ai:      ai,
		el:      el,
		voiceID: voiceID,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(allowedOrigins))
	r.MethodNotAllowed(methodNotAllowed)

	r.Post("/api/chat", h.Chat)
	r.Options("/api/chat", preflight)
	r.Post("/api/voice", h.Speech)
	r.Options("/api/voice", preflight)

	return r
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", "POST, OPTIONS")
	util.SendMessage(w, "Method not allowed.", http.StatusMethodNotAllowed)
}
