package playback

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

type fakeEngine struct {
	spoken    []Utterance
	speaking  bool
	paused    bool
	stops     int
	resumes   int
	failSpeak error
	events    chan Event
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan Event)}
}

func (e *fakeEngine) Speak(u Utterance) error {
	if e.failSpeak != nil {
		return e.failSpeak
	}
	e.spoken = append(e.spoken, u)
	e.speaking, e.paused = true, false
	return nil
}

func (e *fakeEngine) PauseAtWordBoundary() bool {
	if !e.speaking {
		return false
	}
	e.paused = true
	return true
}

func (e *fakeEngine) Resume() bool {
	if !e.paused {
		return false
	}
	e.paused = false
	e.resumes++
	return true
}

func (e *fakeEngine) StopImmediately() {
	e.speaking, e.paused = false, false
	e.stops++
}

func (e *fakeEngine) IsSpeaking() bool     { return e.speaking }
func (e *fakeEngine) IsPaused() bool       { return e.paused }
func (e *fakeEngine) Events() <-chan Event { return e.events }

func (e *fakeEngine) last() Utterance {
	if len(e.spoken) == 0 {
		return Utterance{}
	}
	return e.spoken[len(e.spoken)-1]
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// harness drives a Machine synchronously with fake collaborators.
type harness struct {
	t         *testing.T
	eng       *fakeEngine
	sched     *fakeScheduler
	m         *Machine
	posted    []Event
	completed []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, eng: newFakeEngine(), sched: &fakeScheduler{}}
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.OnComplete = func(id string) { h.completed = append(h.completed, id) }
	h.m = NewMachine(h.eng, h.sched, func(e Event) { h.posted = append(h.posted, e) }, opts)
	return h
}

func (h *harness) flush() {
	for len(h.posted) > 0 {
		e := h.posted[0]
		h.posted = h.posted[1:]
		h.m.Handle(e)
	}
}

// tick fires every timer that is live right now, then delivers the events.
func (h *harness) tick() {
	for _, t := range h.sched.live() {
		t.fired = true
		t.f()
	}
	h.flush()
}

// speakThrough reports the last utterance as started and finished.
func (h *harness) speakThrough() {
	u := h.eng.last()
	h.m.Handle(Event{Kind: UtteranceStarted, ID: u.ID})
	h.eng.speaking = false
	h.m.Handle(Event{Kind: UtteranceFinished, ID: u.ID})
	h.flush()
}

// advance completes the current token.
func (h *harness) advance() {
	h.t.Helper()
	tok, ok := h.m.Current()
	if !ok {
		h.t.Fatal("advance past end of sequence")
	}
	if tok.Kind == TokenSilence {
		h.tick()
		return
	}
	h.speakThrough()
}

// advanceTo advances until the cursor is on the sentence token with ordinal.
func (h *harness) advanceTo(ordinal int) {
	h.t.Helper()
	for i := 0; h.m.Position() != ordinal; i++ {
		if i > 100 {
			h.t.Fatalf("never reached sentence %d", ordinal)
		}
		h.advance()
	}
}

func sentence(i int, section string) pack.Sentence {
	return pack.Sentence{
		ID:        fmt.Sprintf("sent%d", i),
		SectionID: section,
		Text:      fmt.Sprintf("Sentence number %d is here.", i),
	}
}

// testPack has two body sections with sentences 0-2 and 3-4, a
// bibliography with sentence 5 and an appendix with sentence 6.
func testPack() *pack.Pack {
	p := &pack.Pack{
		ID:   "doc-1",
		Meta: pack.Meta{Title: "Paper", Authors: []string{"Ann Lee", "Bo Kim"}, Date: "2020"},
		Sections: []pack.Section{
			{ID: "sec1", Title: "Introduction", Kind: pack.KindBody, SentenceIDs: []string{"sent0", "sent1", "sent2"}, IncludedByDefault: true},
			{ID: "sec2", Title: "Methods", Kind: pack.KindBody, SentenceIDs: []string{"sent3", "sent4"}, IncludedByDefault: true},
			{ID: "sec3", Title: "References", Kind: pack.KindBibliography, SentenceIDs: []string{"sent5"}},
			{ID: "sec4", Title: "Appendix", Kind: pack.KindAppendix, SentenceIDs: []string{"sent6"}},
		},
	}
	owners := []string{"sec1", "sec1", "sec1", "sec2", "sec2", "sec3", "sec4"}
	for i, sec := range owners {
		p.Sentences = append(p.Sentences, sentence(i, sec))
	}
	return p
}

// flatPack has a single section of n sentences.
func flatPack(n int) *pack.Pack {
	p := &pack.Pack{ID: "flat", Meta: pack.Meta{Title: "Flat", Authors: []string{}}}
	sec := pack.Section{ID: "main", Title: "Main Content", Kind: pack.KindBody, IncludedByDefault: true}
	for i := range n {
		s := sentence(i, "main")
		p.Sentences = append(p.Sentences, s)
		sec.SentenceIDs = append(sec.SentenceIDs, s.ID)
	}
	p.Sections = []pack.Section{sec}
	return p
}
