package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/completion"
	"github.com/rkipkemboi/portfolio-assistant/internal/config"
	"github.com/rkipkemboi/portfolio-assistant/internal/elevenlab"
	"github.com/rkipkemboi/portfolio-assistant/internal/handler"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()

	var ai completion.Client
	if cfg.OpenAIKey != "" {
		ai = completion.NewOpenAI(cfg.OpenAIKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, chat replies will use the local fallback")
	}

	var el elevenlab.Client
	if cfg.ElevenLabsKey != "" {
		el = elevenlab.NewElevenLab(cfg.ElevenLabsKey)
	} else {
		log.Warn().Msg("ELEVENLABS_API_KEY not set, the voice endpoint will answer 503")
	}

	router := handler.NewRouter(ai, el, cfg.VoiceID, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
