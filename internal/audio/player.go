package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Playback is one running utterance.
type Playback interface {
	// Done is closed when playback finishes, fails, or is stopped.
	Done() <-chan struct{}

	// Stop ends playback immediately. Safe to call more than once.
	Stop()
}

// Player starts audio output from an MPEG file on disk.
type Player interface {
	Play(ctx context.Context, path string) (Playback, error)
}

// ExecPlayer plays audio through a locally installed command-line player.
type ExecPlayer struct {
	command string
	args    []string
}

// NewExecPlayer finds a usable player on the host.
func NewExecPlayer() (*ExecPlayer, error) {
	candidates := []struct {
		command string
		args    []string
	}{
		{"afplay", nil},
		{"mpg123", []string{"-q"}},
		{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	}

	for _, c := range candidates {
		if _, err := exec.LookPath(c.command); err == nil {
			return &ExecPlayer{command: c.command, args: c.args}, nil
		}
	}

	return nil, fmt.Errorf("no audio player found on %s", runtime.GOOS)
}

func (p *ExecPlayer) Play(ctx context.Context, path string) (Playback, error) {
	cmd := exec.CommandContext(ctx, p.command, append(append([]string{}, p.args...), path)...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	pb := &execPlayback{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		close(pb.done)
	}()

	return pb, nil
}

type execPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}
	stop sync.Once
}

func (p *execPlayback) Done() <-chan struct{} {
	return p.done
}

func (p *execPlayback) Stop() {
	p.stop.Do(func() {
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
	})
}
