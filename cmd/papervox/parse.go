package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papervox/internal/pack"
	"github.com/dgallion1/papervox/internal/parser"
	"github.com/dgallion1/papervox/internal/pipeline"
	"github.com/dgallion1/papervox/internal/structure"
)

func parseCmd(g *globals) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document and print its reading pack as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPack(g, args[0])
			if err != nil {
				return err
			}
			var out any = p
			if summary {
				out = p.Summarize()
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the library summary")
	return cmd
}

// loadPack parses path into a pack, reporting failures with their kind.
func loadPack(g *globals, path string) (*pack.Pack, error) {
	cfg := g.config()
	opts := parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
	p, err := pipeline.ParseFile(path, opts, structure.NewAssembler())
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, pipeline.KindOf(err), err)
	}
	return p, nil
}
