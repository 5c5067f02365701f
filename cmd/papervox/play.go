package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dgallion1/papervox/internal/config"
	"github.com/dgallion1/papervox/internal/narrator"
	"github.com/dgallion1/papervox/internal/playback"
	"github.com/dgallion1/papervox/internal/state"
)

// engine is a playback.Engine that holds resources until closed.
type engine interface {
	playback.Engine
	Close()
}

func playCmd(g *globals) *cobra.Command {
	var (
		flags   sequenceFlags
		logFile string
		fresh   bool
	)

	cmd := &cobra.Command{
		Use:   "play <file>...",
		Short: "Narrate one or more documents in the terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config()
			if err := cfg.ValidatePlayback(); err != nil {
				return err
			}

			// The TUI owns the terminal, so logs go to a file or nowhere.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			log := g.logger(logOut)

			queue := &playback.Queue{}
			for _, path := range args {
				p, err := loadPack(g, path)
				if err != nil {
					return err
				}
				pc, err := flags.config(p)
				if err != nil {
					return err
				}
				if !queue.Add(playback.QueueItem{Pack: p, Config: pc}) {
					log.Info("duplicate document skipped", "path", path, "document_id", p.ID)
				}
			}

			positions, err := state.NewStateStore(cfg.StateDir)
			if err != nil {
				log.Warn("reading positions unavailable", "error", err)
				positions = nil
			}
			if fresh {
				positions = nil
			}

			eng, err := newEngine(cfg, log)
			if err != nil {
				return err
			}
			defer eng.Close()

			return runPlayer(cmd.Context(), eng, cfg, queue, positions, log)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	cmd.Flags().BoolVar(&fresh, "from-start", false, "ignore saved reading positions")
	return cmd
}

// newEngine picks the external speech command when one is configured and
// the silent timed engine otherwise.
func newEngine(cfg config.Config, log *slog.Logger) (engine, error) {
	if cfg.SpeechCommand != "" {
		c, err := narrator.NewCommand(cfg.SpeechCommand, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return narrator.NewTimed(cfg.WordsPerSecond), nil
}

func runPlayer(ctx context.Context, eng engine, cfg config.Config, queue *playback.Queue, positions *state.StateStore, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := playback.DefaultOptions()
	opts.SettleDelay = cfg.SettleDelay
	opts.BaseRate = cfg.BaseRate
	opts.Logger = log

	session := playback.NewSession(eng, playback.ClockScheduler{}, opts)
	go session.Run(ctx)

	m := newModel(ctx, session, queue, positions)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	cancel()
	<-session.Done()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
