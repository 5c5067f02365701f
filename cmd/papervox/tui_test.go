package main

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/playback"
	"github.com/dgallion1/papervox/internal/state"
)

func tuiPack(id, hash string) *pack.Pack {
	return &pack.Pack{
		ID:   id,
		Meta: pack.Meta{Title: "Paper " + id},
		Sections: []pack.Section{
			{ID: "sec1", Title: "Introduction", Kind: pack.KindBody, SentenceIDs: []string{"sent0", "sent1", "sent2"}, IncludedByDefault: true},
		},
		Sentences: []pack.Sentence{
			{ID: "sent0", SectionID: "sec1", Text: "First sentence of the paper."},
			{ID: "sent1", SectionID: "sec1", Text: "Second sentence of the paper."},
			{ID: "sent2", SectionID: "sec1", Text: "Third sentence of the paper."},
		},
		Source: pack.Source{Filename: id + ".md", Hash: hash},
	}
}

func tuiModel(t *testing.T, packs ...*pack.Pack) (model, *state.StateStore) {
	t.Helper()
	positions, err := state.NewStateStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	q := &playback.Queue{}
	for _, p := range packs {
		q.Add(playback.QueueItem{Pack: p, Config: pack.DefaultConfig(p)})
	}
	return newModel(context.Background(), nil, q, positions), positions
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestCommandFor(t *testing.T) {
	keys := defaultKeyMap()
	playing := playback.State{Status: playback.StatusPlaying, Speed: 1}
	paused := playback.State{Status: playback.StatusPaused, Speed: 1}

	tests := []struct {
		name string
		msg  tea.KeyMsg
		st   playback.State
		want playback.Command
		ok   bool
	}{
		{"space pauses", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, playing, playback.Command{Kind: playback.CmdPause}, true},
		{"space plays", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, paused, playback.Command{Kind: playback.CmdPlay}, true},
		{"left jumps back", tea.KeyMsg{Type: tea.KeyLeft}, playing, playback.Command{Kind: playback.CmdJump, Delta: -3}, true},
		{"right jumps ahead", tea.KeyMsg{Type: tea.KeyRight}, playing, playback.Command{Kind: playback.CmdJump, Delta: 3}, true},
		{"up speeds up", tea.KeyMsg{Type: tea.KeyUp}, playing, playback.Command{Kind: playback.CmdSetSpeed, Speed: 1.25}, true},
		{"down slows down", tea.KeyMsg{Type: tea.KeyDown}, playing, playback.Command{Kind: playback.CmdSetSpeed, Speed: 0.75}, true},
		{"s stops", keyRune('s'), playing, playback.Command{Kind: playback.CmdStop}, true},
		{"other keys ignored", keyRune('x'), playing, playback.Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := commandFor(keys, tt.msg, tt.st)
			if ok != tt.ok || got.Kind != tt.want.Kind || got.Delta != tt.want.Delta || got.Speed != tt.want.Speed {
				t.Errorf("commandFor() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestModel_StartCommandsResume(t *testing.T) {
	p := tuiPack("a", "hash-a")
	m, positions := tuiModel(t, p)

	cmds := m.startCommands()
	if len(cmds) != 2 || cmds[0].Kind != playback.CmdLoad || cmds[0].Pack != p || cmds[1].Kind != playback.CmdPlay {
		t.Fatalf("expected load then play, got %+v", cmds)
	}

	if err := positions.SetPosition("hash-a", "Paper a", 2); err != nil {
		t.Fatal(err)
	}
	cmds = m.startCommands()
	if len(cmds) != 3 || cmds[1].Kind != playback.CmdSeek || cmds[1].Position != 2 {
		t.Fatalf("expected seek to saved position, got %+v", cmds)
	}

	m.positions = nil
	if cmds := m.startCommands(); len(cmds) != 2 {
		t.Errorf("expected no seek without a position store, got %+v", cmds)
	}
}

func TestModel_SavesPositionOnStateChange(t *testing.T) {
	p := tuiPack("a", "hash-a")
	m, positions := tuiModel(t, p)
	m.startCommands()

	next, _ := m.Update(stateMsg{DocumentID: "a", Status: playback.StatusPlaying, Position: 1, Sentences: 3, Sentence: 1})
	m = next.(model)
	if pos, ok := positions.GetPosition("hash-a"); !ok || pos.Sentence != 1 || pos.Title != "Paper a" {
		t.Errorf("expected saved position 1, got %+v %v", pos, ok)
	}

	// Off a sentence the last position is kept.
	next, _ = m.Update(stateMsg{DocumentID: "a", Status: playback.StatusPlaying, Position: -1, Sentences: 3, Sentence: 1})
	m = next.(model)
	if pos, _ := positions.GetPosition("hash-a"); pos.Sentence != 1 {
		t.Errorf("expected position to stay 1, got %d", pos.Sentence)
	}
}

func TestModel_CompletionAdvancesQueue(t *testing.T) {
	a, b := tuiPack("a", "hash-a"), tuiPack("b", "hash-b")
	m, positions := tuiModel(t, a, b)
	m.startCommands()
	if err := positions.SetPosition("hash-a", "Paper a", 2); err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(completedMsg("a"))
	m = next.(model)
	if cmd == nil || m.done || m.queue.Index() != 1 {
		t.Fatalf("expected to move on to the second paper, index %d done %v", m.queue.Index(), m.done)
	}
	if _, ok := positions.GetPosition("hash-a"); ok {
		t.Error("expected finished paper's position to be cleared")
	}
	if m.packs["b"] != b {
		t.Error("expected second paper to be loaded")
	}

	next, _ = m.Update(completedMsg("b"))
	m = next.(model)
	if !m.done || !m.quitting {
		t.Error("expected queue to finish")
	}
	if !strings.Contains(m.View(), "Queue complete") {
		t.Errorf("unexpected final view %q", m.View())
	}
}

func TestModel_NextPrevKeys(t *testing.T) {
	m, _ := tuiModel(t, tuiPack("a", "hash-a"), tuiPack("b", "hash-b"))
	m.startCommands()

	next, _ := m.Update(keyRune('n'))
	m = next.(model)
	if m.queue.Index() != 1 {
		t.Fatalf("expected index 1, got %d", m.queue.Index())
	}
	next, _ = m.Update(keyRune('n'))
	m = next.(model)
	if m.queue.Index() != 1 {
		t.Errorf("expected to stay on the last paper, got %d", m.queue.Index())
	}
	next, _ = m.Update(keyRune('p'))
	m = next.(model)
	if m.queue.Index() != 0 {
		t.Errorf("expected index 0, got %d", m.queue.Index())
	}
}

func TestModel_View(t *testing.T) {
	m, _ := tuiModel(t, tuiPack("a", "hash-a"))
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("expected loading view before the first state, got %q", m.View())
	}
	m.startCommands()

	next, _ := m.Update(stateMsg{
		DocumentID: "a",
		Status:     playback.StatusPaused,
		Cursor:     5,
		Tokens:     10,
		Position:   1,
		Sentences:  3,
		Sentence:   1,
		Window:     []string{"sent0", "sent1", "sent2"},
		Speed:      1.25,
		Heading:    "Introduction",
	})
	view := next.(model).View()
	for _, want := range []string{"Paper a", "Introduction", "Second sentence", "Sentence 2/3", "1.25x", "PAUSED"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := tuiModel(t, tuiPack("a", "hash-a"))
	next, cmd := m.Update(keyRune('q'))
	if cmd == nil || !next.(model).quitting {
		t.Error("expected quit")
	}
	if next.(model).View() != "" {
		t.Error("expected empty view after quit")
	}
}
