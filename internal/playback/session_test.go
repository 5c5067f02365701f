package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

// autoEngine reports every utterance as started and finished at once.
type autoEngine struct {
	spoken []string
	events chan Event
}

func (e *autoEngine) Speak(u Utterance) error {
	e.spoken = append(e.spoken, u.Text)
	e.events <- Event{Kind: UtteranceStarted, ID: u.ID}
	e.events <- Event{Kind: UtteranceFinished, ID: u.ID}
	return nil
}

func (e *autoEngine) StopImmediately() {}

func (e *autoEngine) PauseAtWordBoundary() bool { return false }
func (e *autoEngine) Resume() bool              { return false }
func (e *autoEngine) IsSpeaking() bool          { return false }
func (e *autoEngine) IsPaused() bool            { return false }
func (e *autoEngine) Events() <-chan Event      { return e.events }

// quickScheduler shrinks every delay a hundredfold.
type quickScheduler struct{}

func (quickScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d/100, f)
}

func startSession(t *testing.T, eng Engine) (*Session, chan error, context.CancelFunc) {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSession(eng, quickScheduler{}, opts)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	return s, errc, cancel
}

func TestSession_NarratesToCompletion(t *testing.T) {
	eng := &autoEngine{events: make(chan Event, 64)}
	s, errc, cancel := startSession(t, eng)
	defer cancel()

	ctx := context.Background()
	p := flatPack(3)
	if err := s.Send(ctx, Command{Kind: CmdLoad, Pack: p, Config: pack.DefaultConfig(p)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Send(ctx, Command{Kind: CmdPlay}); err != nil {
		t.Fatal(err)
	}

	select {
	case id := <-s.Completed():
		if id != "flat" {
			t.Errorf("expected completion for flat, got %q", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for completion")
	}

	deadline := time.After(5 * time.Second)
	for {
		var st State
		select {
		case st = <-s.Updates():
		case <-deadline:
			t.Fatal("timed out waiting for final state")
		}
		if st.Status == StatusIdle && st.Cursor == st.Tokens && st.DocumentID == "flat" {
			break
		}
	}

	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(eng.spoken) != 6 {
		t.Errorf("expected 6 utterances, got %d: %q", len(eng.spoken), eng.spoken)
	}
}

func TestSession_SendAfterClose(t *testing.T) {
	eng := &autoEngine{events: make(chan Event, 64)}
	s, errc, cancel := startSession(t, eng)
	cancel()
	<-errc

	if err := s.Send(context.Background(), Command{Kind: CmdPlay}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
	select {
	case <-s.Done():
	default:
		t.Error("expected Done to be closed")
	}
}

func TestSession_UpdatesKeepLatest(t *testing.T) {
	eng := &autoEngine{events: make(chan Event, 64)}
	s, errc, cancel := startSession(t, eng)
	defer func() {
		cancel()
		<-errc
	}()

	ctx := context.Background()
	for _, speed := range []float64{1.5, 2, 9} {
		if err := s.Send(ctx, Command{Kind: CmdSetSpeed, Speed: speed}); err != nil {
			t.Fatal(err)
		}
	}
	// Send returns once the command is received; one more round trip
	// guarantees the last one has been applied and published.
	if err := s.Send(ctx, Command{Kind: CmdStop}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-s.Updates():
			if st.Speed == MaxSpeed {
				return
			}
		case <-deadline:
			t.Fatal("never saw the clamped speed")
		}
	}
}
