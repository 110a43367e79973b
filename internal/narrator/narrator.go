// Package narrator reads the current page aloud, through the voice endpoint
// when one is configured and through the host's own text-to-speech otherwise.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/audio"
	"github.com/rkipkemboi/portfolio-assistant/internal/speech"
)

type State int

const (
	StateOff State = iota
	StateRequesting
	StateSpeaking
)

const (
	StatusOff         = "Voice over is off"
	StatusOn          = "Voice over is on"
	StatusNothing     = "Nothing to read"
	StatusNoMain      = "No main content found"
	StatusUnsupported = "Voice over not supported"
)

func stoppedStatus(detail string) string {
	return fmt.Sprintf("Voice over stopped (%s)", detail)
}

// SpeechEndpoint is the slice of the api client the narrator needs.
type SpeechEndpoint interface {
	Speech(ctx context.Context, text, voiceID string) ([]byte, error)
	HasVoice() bool
}

type Controller struct {
	source   Source
	endpoint SpeechEndpoint // nil means use the local synthesizer
	voiceID  string
	local    speech.Synthesizer
	player   audio.Player

	mu     sync.Mutex
	state  State
	status string
	cancel context.CancelFunc

	// generation increments on every start and stop; async completions
	// carrying a stale generation must not touch state or status.
	generation uint64

	slot audio.Slot
}

// New builds a narration controller over the given page source. endpoint,
// local, and player may each be nil; narration degrades accordingly.
func New(source Source, endpoint SpeechEndpoint, voiceID string, local speech.Synthesizer, player audio.Player) *Controller {
	return &Controller{
		source:   source,
		endpoint: endpoint,
		voiceID:  voiceID,
		local:    local,
		player:   player,
		state:    StateOff,
		status:   StatusOff,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Toggle starts narration when off and stops it otherwise.
func (c *Controller) Toggle(ctx context.Context) {
	if c.State() == StateOff {
		c.Start(ctx)
	} else {
		c.Stop()
	}
}

// Start collects the page's readable text and begins speaking it. Calling
// Start while already narrating is a no-op; use Stop first or Toggle.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateOff {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	text, err := c.source.ReadableText()
	if err != nil {
		if errors.Is(err, ErrNoMain) {
			c.setOff(StatusNoMain)
			return
		}
		log.Warn().Err(err).Msg("failed to collect page text")
		c.setOff(stoppedStatus("page not readable"))
		return
	}
	if text == "" {
		c.setOff(StatusNothing)
		return
	}

	if c.endpoint != nil && c.endpoint.HasVoice() {
		c.startRemote(ctx, text)
		return
	}
	c.startLocal(ctx, text)
}

func (c *Controller) startRemote(ctx context.Context, text string) {
	if c.player == nil {
		c.setOff(StatusUnsupported)
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.state = StateRequesting
	c.status = StatusOn
	c.mu.Unlock()

	go func() {
		data, err := c.endpoint.Speech(reqCtx, text, c.voiceID)
		if err != nil {
			if reqCtx.Err() != nil {
				// Cancelled by Stop or a newer session; that path already
				// set whatever status applies.
				return
			}
			log.Warn().Err(err).Msg("voice endpoint request failed")
			c.finish(gen, stoppedStatus("voice service unavailable"))
			return
		}

		resource, err := audio.NewFile(data)
		if err != nil {
			c.finish(gen, stoppedStatus("playback failed"))
			return
		}

		playback, err := c.player.Play(reqCtx, resource.Path())
		if err != nil {
			resource.Close()
			c.finish(gen, stoppedStatus("playback failed"))
			return
		}

		sess := audio.NewSession(playback, resource, cancel)

		c.mu.Lock()
		if c.generation != gen {
			// A stop or a newer start won the race; this session is stale.
			c.mu.Unlock()
			sess.Release()
			return
		}
		c.state = StateSpeaking
		c.slot.Swap(sess)
		c.mu.Unlock()

		go func() {
			<-playback.Done()
			c.slot.ReleaseIf(sess)
			c.finish(gen, StatusOff)
		}()
	}()
}

func (c *Controller) startLocal(ctx context.Context, text string) {
	if c.local == nil {
		c.setOff(StatusUnsupported)
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.cancel = cancel
	c.state = StateSpeaking
	c.status = StatusOn
	c.mu.Unlock()

	go func() {
		err := c.local.Speak(reqCtx, text)
		if reqCtx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn().Err(err).Msg("local speech synthesis failed")
			c.finish(gen, stoppedStatus("synthesis failed"))
			return
		}
		c.finish(gen, StatusOff)
	}()
}

// Stop is always available: it cancels any in-flight request, releases any
// active playback, and returns to Off.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.generation++
	cancel := c.cancel
	c.cancel = nil
	c.state = StateOff
	c.status = StatusOff
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.slot.Release()
}

// finish moves to Off with the given status, unless a newer session has
// already taken over.
func (c *Controller) finish(gen uint64, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.state = StateOff
	c.status = status
	c.cancel = nil
}

func (c *Controller) setOff(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateOff
	c.status = status
}
