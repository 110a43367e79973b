// Package speech provides the host environment's local text-to-speech
// capability, used when no remote speech endpoint is configured.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Synthesizer speaks text through local audio output, blocking until the
// utterance finishes or ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Command synthesizes speech with a locally installed TTS binary.
type Command struct {
	command string
	args    []string
}

// NewCommand finds a usable synthesizer on the host.
func NewCommand() (*Command, error) {
	candidates := []struct {
		command string
		args    []string
	}{
		{"say", nil},
		{"espeak-ng", nil},
		{"espeak", nil},
		{"flite", []string{"-t"}},
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.command); err == nil {
			return &Command{command: c.command, args: c.args}, nil
		}
	}

	return nil, fmt.Errorf("no speech synthesizer found on %s", runtime.GOOS)
}

func (c *Command) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.command, append(append([]string{}, c.args...), text)...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
