package assistant

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rkipkemboi/portfolio-assistant/internal/api"
	"github.com/rkipkemboi/portfolio-assistant/internal/audio"
)

type fakeEndpoint struct {
	hasChat  bool
	hasVoice bool

	reply   string
	chatErr error

	audioData []byte
	speechErr error

	chatCalls   int
	speechCalls int
	lastPrompt  string
	lastSystem  string
}

func (f *fakeEndpoint) Chat(_ context.Context, prompt, system string) (string, error) {
	f.chatCalls++
	f.lastPrompt = prompt
	f.lastSystem = system
	return f.reply, f.chatErr
}

func (f *fakeEndpoint) Speech(_ context.Context, _, _ string) ([]byte, error) {
	f.speechCalls++
	return f.audioData, f.speechErr
}

func (f *fakeEndpoint) HasChat() bool  { return f.hasChat }
func (f *fakeEndpoint) HasVoice() bool { return f.hasVoice }

type fakePlayback struct {
	mu      sync.Mutex
	stopped bool
	done    chan struct{}
	once    sync.Once
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }

func (p *fakePlayback) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
}

func (p *fakePlayback) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

type fakePlayer struct {
	mu        sync.Mutex
	paths     []string
	playbacks []*fakePlayback
	err       error
}

func (p *fakePlayer) Play(_ context.Context, path string) (audio.Playback, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	pb := &fakePlayback{done: make(chan struct{})}
	p.paths = append(p.paths, path)
	p.playbacks = append(p.playbacks, pb)
	return pb, nil
}

func newSpeakingController(endpoint *fakeEndpoint, player *fakePlayer) *Controller {
	return New(endpoint, player, "v1", "")
}

func TestSendAppendsTranscriptAndSpeaks(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true, reply: "hello there", audioData: []byte("MP3")}
	player := &fakePlayer{}
	c := newSpeakingController(endpoint, player)

	reply := c.Send(context.Background(), "hi")
	if reply != "hello there" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	turns := c.Transcript()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Text != "hi" {
		t.Fatalf("unexpected user turn: %+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Text != "hello there" {
		t.Fatalf("unexpected assistant turn: %+v", turns[1])
	}
	if turns[0].ID == "" || turns[0].ID == turns[1].ID {
		t.Fatal("turns must carry distinct ids")
	}

	if endpoint.lastSystem != DefaultSystemPrompt {
		t.Fatalf("default persona not applied: %q", endpoint.lastSystem)
	}
	if len(player.paths) != 1 {
		t.Fatalf("expected 1 playback, got %d", len(player.paths))
	}
	if !c.Speaking() {
		t.Fatal("controller should be speaking")
	}
}

func TestEmptySubmissionIsNoOp(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true}
	c := newSpeakingController(endpoint, &fakePlayer{})

	if reply := c.Send(context.Background(), "   "); reply != "" {
		t.Fatalf("expected no reply, got %q", reply)
	}
	if len(c.Transcript()) != 0 {
		t.Fatal("transcript must stay empty")
	}
	if endpoint.chatCalls != 0 {
		t.Fatal("no request should be made for empty input")
	}
}

func TestSecondPlaybackReleasesFirst(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true, reply: "reply", audioData: []byte("MP3")}
	player := &fakePlayer{}
	c := newSpeakingController(endpoint, player)

	c.Send(context.Background(), "one")
	c.Send(context.Background(), "two")

	if len(player.playbacks) != 2 {
		t.Fatalf("expected 2 playbacks, got %d", len(player.playbacks))
	}
	if !player.playbacks[0].Stopped() {
		t.Fatal("first playback should be stopped")
	}
	if player.playbacks[1].Stopped() {
		t.Fatal("second playback should still be live")
	}
	if _, err := os.Stat(player.paths[0]); !os.IsNotExist(err) {
		t.Fatal("first session's audio file leaked")
	}
	if _, err := os.Stat(player.paths[1]); err != nil {
		t.Fatalf("second session's audio file missing: %v", err)
	}
	if !c.Speaking() {
		t.Fatal("exactly one playback should remain active")
	}
}

func TestMutedSkipsSpeech(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true, reply: "reply", audioData: []byte("MP3")}
	c := newSpeakingController(endpoint, &fakePlayer{})

	if !c.ToggleMute() {
		t.Fatal("expected muted after toggle")
	}

	c.Send(context.Background(), "hi")
	if endpoint.speechCalls != 0 {
		t.Fatal("muted controller must not request speech")
	}
	if len(c.Transcript()) != 2 {
		t.Fatal("mute must not affect the text transcript")
	}
}

func TestMuteDuringPlaybackStopsIt(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true, reply: "reply", audioData: []byte("MP3")}
	player := &fakePlayer{}
	c := newSpeakingController(endpoint, player)

	c.Send(context.Background(), "hi")
	if !c.Speaking() {
		t.Fatal("expected active playback")
	}

	c.ToggleMute()
	if !player.playbacks[0].Stopped() {
		t.Fatal("muting must stop active playback")
	}
	if c.Speaking() {
		t.Fatal("no playback should remain after muting")
	}
	if len(c.Transcript()) != 2 {
		t.Fatal("mute must not drop rendered replies")
	}
}

func TestPlaybackFailureIsSilent(t *testing.T) {
	endpoint := &fakeEndpoint{hasChat: true, hasVoice: true, reply: "reply", speechErr: errors.New("boom")}
	c := newSpeakingController(endpoint, &fakePlayer{})

	reply := c.Send(context.Background(), "hi")
	if reply != "reply" {
		t.Fatalf("reply must survive playback failure, got %q", reply)
	}
	if c.Speaking() {
		t.Fatal("no playback should be active")
	}
}

func TestDegradedReplies(t *testing.T) {
	tests := []struct {
		name     string
		endpoint *fakeEndpoint
		want     string
	}{
		{
			name:     "no endpoint configured",
			endpoint: &fakeEndpoint{},
			want:     noEndpointMessage,
		},
		{
			name:     "service unavailable",
			endpoint: &fakeEndpoint{hasChat: true, chatErr: &api.StatusError{StatusCode: 503}},
			want:     unavailableMessage,
		},
		{
			name:     "unreachable",
			endpoint: &fakeEndpoint{hasChat: true, chatErr: errors.New("dial tcp: refused")},
			want:     unreachableMessage,
		},
		{
			name:     "empty reply",
			endpoint: &fakeEndpoint{hasChat: true, reply: "   "},
			want:     emptyReplyMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.endpoint, nil, "", "")
			if got := c.Send(context.Background(), "hi"); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
