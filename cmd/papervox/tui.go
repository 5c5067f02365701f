package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/playback"
	"github.com/dgallion1/papervox/internal/state"
)

const (
	jumpStep  = 3
	speedStep = 0.25
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7AA2F7")).
			Italic(true)

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type (
	stateMsg         playback.State
	completedMsg     string
	sessionClosedMsg struct{}
	errMsg           struct{ err error }
)

type model struct {
	ctx       context.Context
	session   *playback.Session
	queue     *playback.Queue
	positions *state.StateStore // nil disables resume

	keys keyMap
	help help.Model
	bar  progress.Model

	packs map[string]*pack.Pack
	state playback.State
	saved int

	err      error
	done     bool
	quitting bool
	width    int
	height   int
}

func newModel(ctx context.Context, session *playback.Session, queue *playback.Queue, positions *state.StateStore) model {
	return model{
		ctx:       ctx,
		session:   session,
		queue:     queue,
		positions: positions,
		keys:      defaultKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		packs:     map[string]*pack.Pack{},
		saved:     -1,
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.load(), waitForState(m.session), waitForCompletion(m.session))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.savePosition()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.savePosition()
			if m.queue.Next() {
				return m, m.load()
			}
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.savePosition()
			if m.queue.Prev() {
				return m, m.load()
			}
			return m, nil
		}
		if c, ok := commandFor(m.keys, msg, m.state); ok {
			return m, send(m.ctx, m.session, c)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.state = playback.State(msg)
		if m.state.Position != m.saved {
			m.savePosition()
		}
		return m, waitForState(m.session)

	case completedMsg:
		m.clearPosition(string(msg))
		if m.queue.Next() {
			return m, tea.Batch(m.load(), waitForCompletion(m.session))
		}
		m.done = true
		m.quitting = true
		return m, tea.Quit

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// commandFor maps a playback key to a session command.
func commandFor(keys keyMap, msg tea.KeyMsg, st playback.State) (playback.Command, bool) {
	switch {
	case key.Matches(msg, keys.Play):
		if st.Status == playback.StatusPlaying {
			return playback.Command{Kind: playback.CmdPause}, true
		}
		return playback.Command{Kind: playback.CmdPlay}, true
	case key.Matches(msg, keys.Back):
		return playback.Command{Kind: playback.CmdJump, Delta: -jumpStep}, true
	case key.Matches(msg, keys.Ahead):
		return playback.Command{Kind: playback.CmdJump, Delta: jumpStep}, true
	case key.Matches(msg, keys.Faster):
		return playback.Command{Kind: playback.CmdSetSpeed, Speed: st.Speed + speedStep}, true
	case key.Matches(msg, keys.Slower):
		return playback.Command{Kind: playback.CmdSetSpeed, Speed: st.Speed - speedStep}, true
	case key.Matches(msg, keys.Stop):
		return playback.Command{Kind: playback.CmdStop}, true
	}
	return playback.Command{}, false
}

// load starts narrating the current queue item.
func (m *model) load() tea.Cmd {
	cmds := m.startCommands()
	if len(cmds) == 0 {
		return nil
	}
	return send(m.ctx, m.session, cmds...)
}

// startCommands loads the current queue item, seeks to its saved reading
// position when there is one, and plays.
func (m *model) startCommands() []playback.Command {
	it, ok := m.queue.Current()
	if !ok {
		return nil
	}
	m.packs[it.Pack.ID] = it.Pack
	m.saved = -1

	cmds := []playback.Command{{Kind: playback.CmdLoad, Pack: it.Pack, Config: it.Config}}
	if m.positions != nil && it.Pack.Source.Hash != "" {
		if pos, ok := m.positions.GetPosition(it.Pack.Source.Hash); ok && pos.Sentence > 0 {
			cmds = append(cmds, playback.Command{Kind: playback.CmdSeek, Position: pos.Sentence})
		}
	}
	return append(cmds, playback.Command{Kind: playback.CmdPlay})
}

func (m *model) savePosition() {
	p := m.packs[m.state.DocumentID]
	if m.positions == nil || p == nil || p.Source.Hash == "" || m.state.Position < 0 {
		return
	}
	if err := m.positions.SetPosition(p.Source.Hash, p.Meta.Title, m.state.Position); err != nil {
		m.err = err
		return
	}
	m.saved = m.state.Position
}

func (m *model) clearPosition(documentID string) {
	p := m.packs[documentID]
	if m.positions == nil || p == nil || p.Source.Hash == "" {
		return
	}
	if err := m.positions.Clear(p.Source.Hash); err != nil {
		m.err = err
	}
}

func (m model) View() string {
	if m.quitting {
		if m.done {
			return completeStyle.Render("\n  Queue complete!\n")
		}
		return ""
	}

	p := m.packs[m.state.DocumentID]
	if p == nil {
		return statusStyle.Render("Loading...")
	}

	var sb strings.Builder
	sb.WriteString(m.statusLine())
	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render(p.Meta.Title))
	sb.WriteString("\n")
	if m.state.Heading != "" {
		sb.WriteString(headingStyle.Render(m.state.Heading))
	}
	sb.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(max(20, m.width-4))
	current := ""
	if i := m.state.Sentence; i >= 0 && i < len(p.Sentences) {
		current = p.Sentences[i].ID
	}
	idx := p.SentenceIndex()
	for _, id := range m.state.Window {
		i, ok := idx[id]
		if !ok {
			continue
		}
		style := contextStyle
		if id == current {
			style = currentStyle
		}
		sb.WriteString(wrap.Render(style.Render(p.Sentences[i].Text)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.bar.ViewAs(m.percent()))
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m model) statusLine() string {
	sentence := "-"
	if m.state.Position >= 0 {
		sentence = fmt.Sprint(m.state.Position + 1)
	}
	status := strings.ToUpper(string(m.state.Status))
	if m.state.Status == playback.StatusPaused {
		status = pausedStyle.Render(status)
	}
	return statusStyle.Render(fmt.Sprintf("Paper %d/%d | Sentence %s/%d | %.2fx | %s",
		m.queue.Index()+1, m.queue.Len(),
		sentence, m.state.Sentences,
		m.state.Speed,
		status,
	))
}

func (m model) percent() float64 {
	if m.state.Tokens == 0 {
		return 0
	}
	return float64(m.state.Cursor) / float64(m.state.Tokens)
}

func send(ctx context.Context, s *playback.Session, cmds ...playback.Command) tea.Cmd {
	return func() tea.Msg {
		for _, c := range cmds {
			if err := s.Send(ctx, c); err != nil {
				return errMsg{err}
			}
		}
		return nil
	}
}

func waitForState(s *playback.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-s.Updates():
			return stateMsg(st)
		case <-s.Done():
			return sessionClosedMsg{}
		}
	}
}

func waitForCompletion(s *playback.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case id := <-s.Completed():
			return completedMsg(id)
		case <-s.Done():
			return nil
		}
	}
}
