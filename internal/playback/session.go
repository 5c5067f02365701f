package playback

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/dgallion1/papervox/internal/pack"
)

// ErrSessionClosed is returned by Send after Run has returned.
var ErrSessionClosed = errors.New("playback session closed")

// CommandKind enumerates the requests a Session accepts.
type CommandKind int

const (
	CmdLoad CommandKind = iota + 1
	CmdPlay
	CmdPause
	CmdStop
	CmdJump
	CmdSeek
	CmdSeekSentence
	CmdSetSpeed
)

// Command is a request to the session goroutine. Only the fields used by
// Kind are read.
type Command struct {
	Kind       CommandKind
	Pack       *pack.Pack
	Config     pack.Config
	Delta      int
	Position   int
	SentenceID string
	Speed      float64
}

// Session owns a Machine on a single goroutine. Commands, engine events
// and scheduled callbacks are all serialized through Run.
type Session struct {
	machine   *Machine
	engine    Engine
	log       *slog.Logger
	cmds      chan Command
	events    chan Event
	updates   chan State
	completed chan string
	done      chan struct{}
	last      State
}

// NewSession wires a machine to engine. opts.OnComplete, if set, is still
// called; completions are also sent on Completed.
func NewSession(engine Engine, sched Scheduler, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		engine:    engine,
		log:       log.With("component", "session"),
		cmds:      make(chan Command),
		events:    make(chan Event, 16),
		updates:   make(chan State, 1),
		completed: make(chan string, 8),
		done:      make(chan struct{}),
	}
	onComplete := opts.OnComplete
	opts.OnComplete = func(id string) {
		if onComplete != nil {
			onComplete(id)
		}
		select {
		case s.completed <- id:
		default:
			s.log.Warn("completion dropped, no reader", "document_id", id)
		}
	}
	s.machine = NewMachine(engine, sched, s.post, opts)
	return s
}

// post is called from timer goroutines.
func (s *Session) post(e Event) {
	select {
	case s.events <- e:
	case <-s.done:
	}
}

// Run processes commands and events until ctx is cancelled. Narration is
// stopped on return.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.machine.Stop()

	engineEvents := s.engine.Events()
	s.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.cmds:
			s.apply(c)
		case e, ok := <-engineEvents:
			if !ok {
				engineEvents = nil
				continue
			}
			s.machine.Handle(e)
		case e := <-s.events:
			s.machine.Handle(e)
		}
		s.publish()
	}
}

func (s *Session) apply(c Command) {
	m := s.machine
	switch c.Kind {
	case CmdLoad:
		if c.Pack == nil {
			s.log.Warn("load without pack ignored")
			return
		}
		m.Load(c.Pack, c.Config)
	case CmdPlay:
		m.Play()
	case CmdPause:
		m.Pause()
	case CmdStop:
		m.Stop()
	case CmdJump:
		if !m.Jump(c.Delta) {
			s.log.Debug("jump dropped", "delta", c.Delta)
		}
	case CmdSeek:
		if !m.Seek(c.Position) {
			s.log.Debug("seek dropped", "position", c.Position)
		}
	case CmdSeekSentence:
		if !m.SeekSentence(c.SentenceID) {
			s.log.Debug("seek dropped", "sentence_id", c.SentenceID)
		}
	case CmdSetSpeed:
		m.SetSpeed(c.Speed)
	}
}

// publish replaces any unread snapshot with the latest one.
func (s *Session) publish() {
	st := s.machine.State()
	if sameState(st, s.last) {
		return
	}
	s.last = st
	select {
	case <-s.updates:
	default:
	}
	s.updates <- st
}

func sameState(a, b State) bool {
	return a.DocumentID == b.DocumentID && a.Status == b.Status &&
		a.Cursor == b.Cursor && a.Tokens == b.Tokens && a.Sentence == b.Sentence &&
		a.Speed == b.Speed && a.Heading == b.Heading && slices.Equal(a.Window, b.Window)
}

// Send delivers a command to the session goroutine.
func (s *Session) Send(ctx context.Context, c Command) error {
	select {
	case s.cmds <- c:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Updates carries the most recent State; unread snapshots are replaced.
func (s *Session) Updates() <-chan State {
	return s.updates
}

// Completed carries the id of each document that finished narrating.
func (s *Session) Completed() <-chan string {
	return s.completed
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
