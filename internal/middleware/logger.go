package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestLogger logs one line per request with a generated request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		start := time.Now()
		next.ServeHTTP(ww, r)

		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
