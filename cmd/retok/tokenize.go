package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newTokenizeCmd() *cobra.Command {
	var in inputFlags
	var format string

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Print the classified segments of the input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := in.read(cmd)
			if err != nil {
				return err
			}

			tok, err := tokenizer.New(input)
			if err != nil {
				return err
			}

			switch strings.ToLower(format) {
			case "json":
				return writeSegmentsJSON(cmd.OutOrStdout(), tok)
			case "table", "":
				return writeSegmentsTable(cmd.OutOrStdout(), tok)
			default:
				return fmt.Errorf("invalid format %q (expected table|json)", format)
			}
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	return cmd
}

func writeSegmentsTable(w io.Writer, tok *tokenizer.Tokenizer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tKIND\tTEXT")
	for _, s := range tok.Segments() {
		fmt.Fprintf(tw, "%d\t%s\t%q\n", s.Index, s.Kind, s.Text)
	}
	return tw.Flush()
}

func writeSegmentsJSON(w io.Writer, tok *tokenizer.Tokenizer) error {
	segments := tok.Segments()
	if segments == nil {
		segments = []tokenizer.Segment{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Segments []tokenizer.Segment `json:"segments"`
		Stats    text.Stats          `json:"stats"`
	}{segments, text.Summarize(tok)})
}
