// Command assistant is a terminal client for the portfolio assistant: it chats
// through the server's endpoints, speaks replies through a local audio player,
// and can read a portfolio page aloud.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/api"
	"github.com/rkipkemboi/portfolio-assistant/internal/assistant"
	"github.com/rkipkemboi/portfolio-assistant/internal/audio"
	"github.com/rkipkemboi/portfolio-assistant/internal/config"
	"github.com/rkipkemboi/portfolio-assistant/internal/narrator"
	"github.com/rkipkemboi/portfolio-assistant/internal/speech"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	server := flag.String("server", "http://localhost:8080", "assistant server base URL")
	page := flag.String("page", "", "portfolio page URL to read aloud with /read")
	voice := flag.String("voice", config.DefaultVoiceID, "voice id for spoken replies")
	flag.Parse()

	client := api.New(*server+"/api/chat", *server+"/api/voice")

	var player audio.Player
	if p, err := audio.NewExecPlayer(); err != nil {
		log.Warn().Err(err).Msg("replies will not be spoken")
	} else {
		player = p
	}

	chat := assistant.New(client, player, *voice, "")
	reader := newReader(client, player, *page, *voice)

	ctx := context.Background()
	fmt.Println("Type a message, or /mute, /read, /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		switch line := strings.TrimSpace(scanner.Text()); line {
		case "":
		case "/quit":
			if reader != nil {
				reader.Stop()
			}
			return
		case "/mute":
			if chat.ToggleMute() {
				fmt.Println("Muted.")
			} else {
				fmt.Println("Unmuted.")
			}
		case "/read":
			if reader == nil {
				fmt.Println("No page configured; start with -page.")
				continue
			}
			reader.Toggle(ctx)
			fmt.Println(reader.Status())
		default:
			fmt.Println(chat.Send(ctx, line))
		}
	}
}

func newReader(client *api.Client, player audio.Player, page, voice string) *narrator.Controller {
	if page == "" {
		return nil
	}

	var synth speech.Synthesizer
	if s, err := speech.NewCommand(); err != nil {
		log.Debug().Err(err).Msg("no local synthesizer available")
	} else {
		synth = s
	}

	source := narrator.HTMLSource{Fetch: func() (io.ReadCloser, error) {
		resp, err := http.Get(page)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}}

	return narrator.New(source, client, voice, synth, player)
}
