package playback

import "time"

// RequestID stamps every engine request, timer and jump transition so late
// events can be matched against what is currently outstanding. Zero means
// nothing is outstanding.
type RequestID uint64

// Utterance is one speak request.
type Utterance struct {
	ID    RequestID
	Text  string
	Rate  float64 // normalized engine rate, see Options
	Pitch float64
}

// EventKind enumerates everything that can drive a Machine forward.
type EventKind int

const (
	UtteranceStarted EventKind = iota + 1
	UtteranceFinished
	TimerExpired
	SettleElapsed
)

func (k EventKind) String() string {
	switch k {
	case UtteranceStarted:
		return "utterance_started"
	case UtteranceFinished:
		return "utterance_finished"
	case TimerExpired:
		return "timer_expired"
	case SettleElapsed:
		return "settle_elapsed"
	}
	return "unknown"
}

// Event is delivered to Machine.Handle.
type Event struct {
	Kind EventKind
	ID   RequestID
}

// Engine is a narration engine. Speak must not block until the utterance
// ends; progress is reported on Events with the utterance's ID.
// StopImmediately must not report the cancelled utterance as started.
type Engine interface {
	Speak(u Utterance) error
	PauseAtWordBoundary() bool
	Resume() bool
	StopImmediately()
	IsSpeaking() bool
	IsPaused() bool
	Events() <-chan Event
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d on another goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules with time.AfterFunc.
type ClockScheduler struct{}

func (ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
