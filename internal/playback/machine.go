package playback

import (
	"log/slog"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

// Status is the machine's coarse playback state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
)

// Speed bounds.
const (
	MinSpeed     = 0.25
	MaxSpeed     = 3.5
	DefaultSpeed = 1.0
)

// WindowRadius is the number of sentence ids shown either side of the
// current sentence.
const WindowRadius = 2

// Options tunes a Machine.
type Options struct {
	// SettleDelay separates cancelling narration for a jump from
	// restarting it.
	SettleDelay time.Duration

	// Utterance rate is BaseRate*speed clamped to [MinRate, MaxRate].
	BaseRate float64
	MinRate  float64
	MaxRate  float64
	Pitch    float64

	// OnComplete is called with the document id when narration runs off
	// the end of the sequence.
	OnComplete func(documentID string)

	Logger *slog.Logger
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{
		SettleDelay: 150 * time.Millisecond,
		BaseRate:    0.5,
		MinRate:     0.1,
		MaxRate:     0.6,
		Pitch:       0.95,
	}
}

// State is a read-only snapshot for observers.
type State struct {
	DocumentID string   `json:"document_id"`
	Status     Status   `json:"status"`
	Cursor     int      `json:"cursor"`
	Tokens     int      `json:"tokens"`
	Sentence   int      `json:"sentence_index"`
	Position   int      `json:"position"` // ordinal among sentence tokens, -1 off a sentence
	Sentences  int      `json:"sentences"`
	Window     []string `json:"window"`
	Speed      float64  `json:"speed"`
	Heading    string   `json:"heading,omitempty"`
}

type transition struct {
	id RequestID
}

// Machine narrates a token sequence. It is not safe for concurrent use;
// Session owns one on a single goroutine. All waits are scheduled through
// the Scheduler and come back as events through post.
type Machine struct {
	engine Engine
	sched  Scheduler
	post   func(Event)
	opts   Options
	log    *slog.Logger

	pack      *pack.Pack
	docID     string
	seq       []Token
	sentences []int // token index of each sentence token, in order

	status    Status
	cursor    int
	curSent   int
	window    []string
	heading   string
	speed     float64
	pausedMid bool

	lastID     RequestID
	pending    RequestID
	timer      Timer
	transition *transition
}

// NewMachine returns an idle machine with nothing loaded. post receives
// events produced by scheduled callbacks and must feed them back into
// Handle on the machine's owning goroutine.
func NewMachine(engine Engine, sched Scheduler, post func(Event), opts Options) *Machine {
	def := DefaultOptions()
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = def.SettleDelay
	}
	if opts.BaseRate <= 0 {
		opts.BaseRate = def.BaseRate
	}
	if opts.MinRate <= 0 {
		opts.MinRate = def.MinRate
	}
	if opts.MaxRate <= 0 {
		opts.MaxRate = def.MaxRate
	}
	if opts.Pitch <= 0 {
		opts.Pitch = def.Pitch
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		engine: engine,
		sched:  sched,
		post:   post,
		opts:   opts,
		log:    log.With("component", "playback"),
		status: StatusIdle,
		speed:  DefaultSpeed,
		window: []string{},
	}
}

// Load discards any prior sequence and builds a new one. The machine is
// left idle at the first token.
func (m *Machine) Load(p *pack.Pack, cfg pack.Config) {
	m.cancel()
	m.pack = p
	m.docID = p.ID
	m.seq = BuildSequence(p, cfg)
	m.sentences = m.sentences[:0]
	for i, t := range m.seq {
		if t.Kind == TokenSentence {
			m.sentences = append(m.sentences, i)
		}
	}
	m.status = StatusIdle
	m.cursor = 0
	m.curSent = 0
	m.heading = ""
	m.pausedMid = false
	m.setWindow()
	m.log.Info("sequence loaded", "document_id", m.docID, "tokens", len(m.seq), "sentences", len(m.sentences))
}

// Play starts or resumes narration. A pause that caught the engine
// mid-utterance is resumed in place; otherwise the current token is
// started again. Playing after completion starts over.
func (m *Machine) Play() {
	if m.seq == nil || m.status == StatusPlaying {
		return
	}
	resume := m.pausedMid
	m.status = StatusPlaying
	m.pausedMid = false

	if resume && m.engine.IsPaused() && m.engine.Resume() {
		return
	}
	if m.transition != nil {
		return // settle will step
	}
	if m.cursor >= len(m.seq) {
		m.cursor = 0
	}
	m.step()
}

// Pause pauses at the next word boundary when the engine is speaking. A
// pending silence is left to expire; its event is ignored while paused.
func (m *Machine) Pause() {
	if m.status != StatusPlaying {
		return
	}
	m.status = StatusPaused
	if m.engine.IsSpeaking() && m.engine.PauseAtWordBoundary() {
		m.pausedMid = true
	}
}

// Stop cancels narration and any timer. The cursor is kept, so Play
// restarts the current token.
func (m *Machine) Stop() {
	m.status = StatusIdle
	m.pausedMid = false
	m.cancel()
}

// SetSpeed clamps and applies a speed factor, returning the value used.
// It takes effect from the next utterance.
func (m *Machine) SetSpeed(factor float64) float64 {
	m.speed = clampSpeed(factor)
	return m.speed
}

func clampSpeed(f float64) float64 {
	return min(MaxSpeed, max(MinSpeed, f))
}

// Jump moves delta sentences forward or back, counting sentence tokens
// only, and clamps to the first and last sentence. From a heading or
// silence, the next sentence token is the reference point. It reports
// false when the jump was dropped because another is still settling, or
// when there are no sentences.
func (m *Machine) Jump(delta int) bool {
	if len(m.sentences) == 0 {
		return false
	}
	next := m.nextSentence()
	target := next + delta
	if next < len(m.sentences) && m.sentences[next] != m.cursor && delta > 0 {
		target--
	}
	return m.requestSeek(target)
}

// Seek moves to the sentence token with the given ordinal.
func (m *Machine) Seek(ordinal int) bool {
	return m.requestSeek(ordinal)
}

// SeekSentence moves to the sentence token for a pack sentence id.
func (m *Machine) SeekSentence(id string) bool {
	for ord, ti := range m.sentences {
		if m.seq[ti].SentenceID == id {
			return m.requestSeek(ord)
		}
	}
	return false
}

// requestSeek is the single retarget path. It cancels narration, moves
// the cursor and opens a transition that ends when the settle timer fires.
func (m *Machine) requestSeek(ordinal int) bool {
	if m.transition != nil || len(m.sentences) == 0 {
		return false
	}
	ordinal = min(max(ordinal, 0), len(m.sentences)-1)

	m.engine.StopImmediately()
	m.cancelTimer()
	m.pending = 0
	m.pausedMid = false

	m.cursor = m.sentences[ordinal]
	m.curSent = m.seq[m.cursor].Sentence
	m.heading = ""
	m.setWindow()

	id := m.nextID()
	m.transition = &transition{id: id}
	m.timer = m.sched.AfterFunc(m.opts.SettleDelay, func() {
		m.post(Event{Kind: SettleElapsed, ID: id})
	})
	return true
}

// Handle applies one event. Events whose id does not match the
// outstanding request or transition are stale and dropped.
func (m *Machine) Handle(e Event) {
	switch e.Kind {
	case SettleElapsed:
		if m.transition == nil || m.transition.id != e.ID {
			return
		}
		m.transition = nil
		m.timer = nil
		if m.status == StatusPlaying {
			m.step()
		}

	case UtteranceStarted:
		if e.ID == 0 || e.ID != m.pending {
			return
		}
		if t, ok := m.Current(); ok && t.Kind == TokenSentence {
			m.curSent = t.Sentence
			m.setWindow()
		}

	case UtteranceFinished, TimerExpired:
		if e.ID == 0 || e.ID != m.pending || m.status != StatusPlaying {
			return
		}
		m.pending = 0
		m.timer = nil
		m.cursor++
		m.step()
	}
}

func (m *Machine) step() {
	m.cancelTimer()
	if m.status != StatusPlaying {
		return
	}
	if m.cursor >= len(m.seq) {
		m.complete()
		return
	}
	if m.engine.IsSpeaking() || m.engine.IsPaused() {
		m.engine.StopImmediately()
	}
	m.pausedMid = false

	t := m.seq[m.cursor]
	id := m.nextID()
	m.pending = id

	switch t.Kind {
	case TokenSilence:
		m.heading = ""
		m.timer = m.sched.AfterFunc(t.Silence, func() {
			m.post(Event{Kind: TimerExpired, ID: id})
		})
	case TokenHeading:
		m.heading = t.Text
		m.speak(id, t.Text)
	case TokenSentence:
		m.heading = ""
		m.speak(id, t.Text)
	}
}

func (m *Machine) speak(id RequestID, text string) {
	u := Utterance{ID: id, Text: text, Rate: m.rate(), Pitch: m.opts.Pitch}
	if err := m.engine.Speak(u); err != nil {
		m.log.Warn("speak failed, skipping token", "document_id", m.docID, "cursor", m.cursor, "error", err)
		m.timer = m.sched.AfterFunc(0, func() {
			m.post(Event{Kind: UtteranceFinished, ID: id})
		})
	}
}

func (m *Machine) complete() {
	m.status = StatusIdle
	m.pending = 0
	m.heading = ""
	m.log.Info("narration complete", "document_id", m.docID)
	if m.opts.OnComplete != nil {
		m.opts.OnComplete(m.docID)
	}
}

func (m *Machine) rate() float64 {
	return min(m.opts.MaxRate, max(m.opts.MinRate, m.opts.BaseRate*m.speed))
}

func (m *Machine) cancel() {
	m.engine.StopImmediately()
	m.cancelTimer()
	m.pending = 0
	m.transition = nil
}

func (m *Machine) cancelTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) nextID() RequestID {
	m.lastID++
	return m.lastID
}

// nextSentence returns the ordinal of the first sentence token at or after
// the cursor, or len(sentences) when there is none.
func (m *Machine) nextSentence() int {
	for ord, ti := range m.sentences {
		if ti >= m.cursor {
			return ord
		}
	}
	return len(m.sentences)
}

func (m *Machine) setWindow() {
	m.window = []string{}
	if m.pack == nil {
		return
	}
	lo := max(0, m.curSent-WindowRadius)
	hi := min(len(m.pack.Sentences)-1, m.curSent+WindowRadius)
	for i := lo; i <= hi; i++ {
		m.window = append(m.window, m.pack.Sentences[i].ID)
	}
}

// Current returns the token under the cursor. It reports false when the
// cursor is outside the sequence.
func (m *Machine) Current() (Token, bool) {
	if m.cursor < 0 || m.cursor >= len(m.seq) {
		return Token{}, false
	}
	return m.seq[m.cursor], true
}

// Position returns the ordinal of the current sentence token, or -1 when
// the cursor is not on a sentence.
func (m *Machine) Position() int {
	for ord, ti := range m.sentences {
		if ti == m.cursor {
			return ord
		}
	}
	return -1
}

// Sequence returns the loaded token list.
func (m *Machine) Sequence() []Token {
	return m.seq
}

// State returns a snapshot of the machine.
func (m *Machine) State() State {
	window := make([]string, len(m.window))
	copy(window, m.window)
	return State{
		DocumentID: m.docID,
		Status:     m.status,
		Cursor:     m.cursor,
		Tokens:     len(m.seq),
		Sentence:   m.curSent,
		Position:   m.Position(),
		Sentences:  len(m.sentences),
		Window:     window,
		Speed:      m.speed,
		Heading:    m.heading,
	}
}
