// Package assistant drives the chat widget: it sends visitor prompts to the
// chat endpoint, keeps the transcript, and speaks replies through the voice
// endpoint unless muted.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rkipkemboi/portfolio-assistant/internal/api"
	"github.com/rkipkemboi/portfolio-assistant/internal/audio"
)

const (
	// DefaultSystemPrompt is the persona sent when the page configures none.
	DefaultSystemPrompt = "You are Ronald Kipkemboi, a CS Student-Athlete at Shaw University skilled in React, Java, and AV Tech."

	noEndpointMessage  = "I can help with frontend systems, React, and full-stack builds. Please reach out to connect live AI responses."
	unreachableMessage = "Unable to reach the assistant service. Please check your connection and try again."
	unavailableMessage = "Assistant service unavailable. Please try again shortly."
	emptyReplyMessage  = "Thanks for the message! I'm ready to help with frontend-focused full-stack work."
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry in the append-only transcript.
type Turn struct {
	ID   string
	Role Role
	Text string
}

// Endpoint is the slice of the api client the controller needs.
type Endpoint interface {
	Chat(ctx context.Context, prompt, system string) (string, error)
	Speech(ctx context.Context, text, voiceID string) ([]byte, error)
	HasChat() bool
	HasVoice() bool
}

var _ Endpoint = (*api.Client)(nil)

type Controller struct {
	endpoint Endpoint
	player   audio.Player
	voiceID  string
	system   string

	mu         sync.Mutex
	muted      bool
	transcript []Turn

	slot audio.Slot
}

// New builds a controller. endpoint and player may be nil; the controller
// then degrades to canned replies and silent operation respectively.
func New(endpoint Endpoint, player audio.Player, voiceID, systemPrompt string) *Controller {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Controller{
		endpoint: endpoint,
		player:   player,
		voiceID:  voiceID,
		system:   systemPrompt,
	}
}

// Send submits one visitor turn and returns the assistant's reply. Empty
// input is a no-op. The reply is always appended to the transcript; playback
// of it is attempted afterwards and abandoned silently on any failure.
func (c *Controller) Send(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	c.append(RoleUser, text)

	reply := c.fetchReply(ctx, text)
	c.append(RoleAssistant, reply)

	c.speak(ctx, reply)

	return reply
}

func (c *Controller) fetchReply(ctx context.Context, text string) string {
	if c.endpoint == nil || !c.endpoint.HasChat() {
		return noEndpointMessage
	}

	reply, err := c.endpoint.Chat(ctx, text, c.system)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			log.Warn().Int("status", statusErr.StatusCode).Msg("assistant service unavailable")
			return unavailableMessage
		}
		log.Warn().Err(err).Msg("failed to reach the assistant service")
		return unreachableMessage
	}

	if reply = strings.TrimSpace(reply); reply == "" {
		return emptyReplyMessage
	}
	return reply
}

// speak fetches synthesized audio for text and plays it in the controller's
// single playback slot. Any prior utterance is released before the new one
// starts.
func (c *Controller) speak(ctx context.Context, text string) {
	if c.Muted() || c.endpoint == nil || !c.endpoint.HasVoice() || c.voiceID == "" || c.player == nil {
		return
	}

	data, err := c.endpoint.Speech(ctx, text, c.voiceID)
	if err != nil {
		log.Debug().Err(err).Msg("reply narration abandoned")
		return
	}

	resource, err := audio.NewFile(data)
	if err != nil {
		log.Debug().Err(err).Msg("reply narration abandoned")
		return
	}

	c.slot.Release()

	playback, err := c.player.Play(ctx, resource.Path())
	if err != nil {
		resource.Close()
		log.Debug().Err(err).Msg("reply narration abandoned")
		return
	}

	sess := audio.NewSession(playback, resource, nil)
	c.slot.Swap(sess)

	go func() {
		<-playback.Done()
		c.slot.ReleaseIf(sess)
	}()
}

// ToggleMute flips the mute flag and reports the new state. Muting stops any
// reply currently playing; already rendered text is unaffected.
func (c *Controller) ToggleMute() bool {
	c.mu.Lock()
	c.muted = !c.muted
	muted := c.muted
	c.mu.Unlock()

	if muted {
		c.slot.Release()
	}
	return muted
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Speaking reports whether a reply is currently playing.
func (c *Controller) Speaking() bool {
	return c.slot.Active()
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) append(role Role, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = append(c.transcript, Turn{
		ID:   uuid.New().String(),
		Role: role,
		Text: text,
	})
}
