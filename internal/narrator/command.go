package narrator

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/dgallion1/papervox/internal/playback"
)

// DefaultCommand speaks with espeak-ng.
const DefaultCommand = "espeak-ng -s {wpm} -p {pitch} {text}"

// wpmAtBaseRate maps the base utterance rate to a speaking pace for
// command line synthesizers.
const wpmAtBaseRate = 175

type speechProc struct {
	id      playback.RequestID
	cmd     *exec.Cmd
	paused  bool
	stopped bool
}

// Command speaks each utterance by running an external program. The
// template is split on whitespace; {text}, {wpm}, {rate} and {pitch} are
// substituted per argument, so the text is always passed as one argument.
// Pause and resume suspend the process on Unix and are unsupported
// elsewhere.
type Command struct {
	mu       sync.Mutex
	template []string
	cur      *speechProc
	out      *emitter
	log      *slog.Logger
}

// NewCommand parses template. An empty template selects DefaultCommand.
func NewCommand(template string, log *slog.Logger) (*Command, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultCommand
	}
	fields := strings.Fields(template)
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, fmt.Errorf("speech command %q: %w", fields[0], err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Command{
		template: fields,
		out:      newEmitter(),
		log:      log.With("component", "narrator", "program", fields[0]),
	}, nil
}

func (c *Command) expand(u playback.Utterance) []string {
	rate := u.Rate
	if rate <= 0 {
		rate = baseRate
	}
	pitch := u.Pitch
	if pitch <= 0 {
		pitch = 1
	}
	r := strings.NewReplacer(
		"{text}", u.Text,
		"{wpm}", strconv.Itoa(int(wpmAtBaseRate*rate/baseRate)),
		"{rate}", strconv.FormatFloat(rate, 'f', 2, 64),
		"{pitch}", strconv.Itoa(int(pitch*50)),
	)
	args := make([]string, len(c.template))
	for i, f := range c.template {
		args[i] = r.Replace(f)
	}
	return args
}

func (c *Command) Speak(u playback.Utterance) error {
	c.StopImmediately()

	args := c.expand(u)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}
	p := &speechProc{id: u.ID, cmd: cmd}

	c.mu.Lock()
	c.cur = p
	c.mu.Unlock()

	c.out.push(playback.Event{Kind: playback.UtteranceStarted, ID: u.ID})
	go c.wait(p)
	return nil
}

func (c *Command) wait(p *speechProc) {
	err := p.cmd.Wait()

	c.mu.Lock()
	stopped := p.stopped
	if c.cur == p {
		c.cur = nil
	}
	c.mu.Unlock()

	if stopped {
		return
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.log.Warn("speech command failed", "exit_code", exitErr.ExitCode())
	} else if err != nil {
		c.log.Warn("speech command wait", "error", err)
	}
	c.out.push(playback.Event{Kind: playback.UtteranceFinished, ID: p.id})
}

// PauseAtWordBoundary suspends the process. Synthesizers buffer audio, so
// the pause lands near, not exactly on, a word boundary.
func (c *Command) PauseAtWordBoundary() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.paused {
		return false
	}
	if !suspend(c.cur.cmd.Process) {
		return false
	}
	c.cur.paused = true
	return true
}

func (c *Command) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || !c.cur.paused {
		return false
	}
	if !resume(c.cur.cmd.Process) {
		return false
	}
	c.cur.paused = false
	return true
}

func (c *Command) StopImmediately() {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.cur
	if p == nil {
		return
	}
	p.stopped = true
	if p.paused {
		resume(p.cmd.Process)
	}
	if err := p.cmd.Process.Kill(); err != nil {
		c.log.Debug("kill speech command", "error", err)
	}
	c.cur = nil
}

func (c *Command) IsSpeaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil
}

func (c *Command) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur != nil && c.cur.paused
}

func (c *Command) Events() <-chan playback.Event {
	return c.out.out
}

// Close kills any running command and closes the event channel.
func (c *Command) Close() {
	c.StopImmediately()
	c.out.close()
}
