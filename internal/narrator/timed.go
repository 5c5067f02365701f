// Package narrator provides playback.Engine implementations.
package narrator

import (
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/papervox/internal/playback"
)

// DefaultWordsPerSecond is the speaking pace at the base rate.
const DefaultWordsPerSecond = 2.5

// baseRate is the utterance rate that corresponds to normal speed.
const baseRate = 0.5

// EstimateWords counts whitespace-separated words.
func EstimateWords(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return len(strings.Fields(text))
}

// EstimateDuration approximates how long text takes to say at rate.
func EstimateDuration(text string, rate, wordsPerSecond float64) time.Duration {
	words := EstimateWords(text)
	if words == 0 {
		return 0
	}
	if rate <= 0 {
		rate = baseRate
	}
	if wordsPerSecond <= 0 {
		wordsPerSecond = DefaultWordsPerSecond
	}
	seconds := float64(words) / (wordsPerSecond * rate / baseRate)
	return time.Duration(seconds * float64(time.Second))
}

type timedUtterance struct {
	id        playback.RequestID
	remaining time.Duration
	started   time.Time
	timer     *time.Timer
	paused    bool
}

// Timed is a silent engine that takes as long to "speak" as a voice
// would. It drives the TUI when no speech command is configured.
type Timed struct {
	mu             sync.Mutex
	wordsPerSecond float64
	cur            *timedUtterance
	out            *emitter
}

// NewTimed returns a Timed engine. Call Close to release it.
func NewTimed(wordsPerSecond float64) *Timed {
	if wordsPerSecond <= 0 {
		wordsPerSecond = DefaultWordsPerSecond
	}
	return &Timed{wordsPerSecond: wordsPerSecond, out: newEmitter()}
}

func (t *Timed) Speak(u playback.Utterance) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()

	cur := &timedUtterance{
		id:        u.ID,
		remaining: EstimateDuration(u.Text, u.Rate, t.wordsPerSecond),
		started:   time.Now(),
	}
	t.cur = cur
	t.out.push(playback.Event{Kind: playback.UtteranceStarted, ID: u.ID})
	cur.timer = time.AfterFunc(cur.remaining, func() { t.finish(cur) })
	return nil
}

func (t *Timed) finish(u *timedUtterance) {
	t.mu.Lock()
	if t.cur != u || u.paused {
		t.mu.Unlock()
		return
	}
	t.cur = nil
	t.mu.Unlock()
	t.out.push(playback.Event{Kind: playback.UtteranceFinished, ID: u.id})
}

func (t *Timed) PauseAtWordBoundary() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	u := t.cur
	if u == nil || u.paused || !u.timer.Stop() {
		return false
	}
	u.remaining -= time.Since(u.started)
	u.paused = true
	return true
}

func (t *Timed) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	u := t.cur
	if u == nil || !u.paused {
		return false
	}
	u.paused = false
	u.started = time.Now()
	u.timer = time.AfterFunc(max(u.remaining, 0), func() { t.finish(u) })
	return true
}

func (t *Timed) StopImmediately() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Timed) stopLocked() {
	if t.cur != nil {
		t.cur.timer.Stop()
		t.cur = nil
	}
}

func (t *Timed) IsSpeaking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur != nil
}

func (t *Timed) IsPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur != nil && t.cur.paused
}

func (t *Timed) Events() <-chan playback.Event {
	return t.out.out
}

// Close stops any utterance and closes the event channel.
func (t *Timed) Close() {
	t.StopImmediately()
	t.out.close()
}
