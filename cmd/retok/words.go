package main

import (
	"fmt"

	"github.com/example/go-retok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newWordsCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "words",
		Short: "Print the word tokens of the input, one per line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := in.read(cmd)
			if err != nil {
				return err
			}

			tok, err := tokenizer.New(input)
			if err != nil {
				return err
			}

			for _, w := range tok.TokenList(nil) {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), w); err != nil {
					return err
				}
			}
			return nil
		},
	}

	in.register(cmd)

	return cmd
}
