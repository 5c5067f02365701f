package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/playback"
)

// sequenceFlags select which sections of a pack are narrated.
type sequenceFlags struct {
	appendix bool
	summary  bool
	sections []string
}

func (f *sequenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.appendix, "appendix", false, "narrate appendix sections")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "narrate summary sections")
	cmd.Flags().StringArrayVar(&f.sections, "section", nil, "narrate only this section id (repeatable)")
}

// config builds the playback configuration for p. Without --section the
// default-included sections are used, plus appendix and summary sections
// when --appendix or --summary ask for them.
func (f *sequenceFlags) config(p *pack.Pack) (pack.Config, error) {
	cfg := pack.DefaultConfig(p)
	if len(f.sections) > 0 {
		for _, id := range f.sections {
			if _, ok := p.Section(id); !ok {
				return pack.Config{}, fmt.Errorf("%s: unknown section %q", p.Source.Filename, id)
			}
		}
		cfg = cfg.WithSections(f.sections...)
	} else {
		for _, s := range p.Sections {
			if (f.appendix && s.Kind == pack.KindAppendix) || (f.summary && s.Kind == pack.KindSummary) {
				cfg.EnabledSections[s.ID] = true
			}
		}
	}
	cfg.IncludeAppendix = f.appendix
	cfg.IncludeSummary = f.summary
	return cfg, nil
}

func sequenceCmd(g *globals) *cobra.Command {
	var (
		flags  sequenceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sequence <file>",
		Short: "Print the narration sequence for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPack(g, args[0])
			if err != nil {
				return err
			}
			cfg, err := flags.config(p)
			if err != nil {
				return err
			}
			seq := playback.BuildSequence(p, cfg)

			if asJSON {
				b, err := json.MarshalIndent(map[string]any{
					"document_id": p.ID,
					"config":      cfg,
					"tokens":      seq,
					"sentences":   playback.SentenceCount(seq),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printSequence(cmd.OutOrStdout(), seq)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	return cmd
}

func printSequence(w io.Writer, seq []playback.Token) {
	for _, t := range seq {
		switch t.Kind {
		case playback.TokenSilence:
			fmt.Fprintf(w, "  ... %s\n", t.Silence)
		case playback.TokenHeading:
			fmt.Fprintf(w, "# %s\n", t.Text)
		case playback.TokenSentence:
			fmt.Fprintf(w, "  [%s] %s\n", t.SentenceID, t.Text)
		}
	}
}
