package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papervox/internal/config"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// globals are the flags shared by every subcommand.
type globals struct {
	verbose   bool
	noPDFText bool
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "papervox",
		Short:         "Turn academic papers into narrated audio",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolVar(&g.noPDFText, "no-pdftotext", false, "do not fall back to pdftotext for PDFs")

	root.AddCommand(parseCmd(g), sequenceCmd(g), playCmd(g))
	return root
}

// logger writes text logs to w; warnings only unless verbose.
func (g *globals) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// config loads the environment configuration with CLI overrides applied.
func (g *globals) config() config.Config {
	cfg := config.Load()
	if g.noPDFText {
		cfg.PDFFallbackPdftotext = false
	}
	return cfg
}
