package main

import (
	"io"

	"github.com/example/go-retok/internal/text"
	"github.com/spf13/cobra"
)

func newTransformCmd() *cobra.Command {
	var in inputFlags
	var caseMode string
	var dictPath string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Rewrite word tokens and keep punctuation and spacing intact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fn, err := buildWordFunc(caseMode, dictPath)
			if err != nil {
				return err
			}

			input, err := in.read(cmd)
			if err != nil {
				return err
			}

			out, err := text.TransformString(input, fn)
			if err != nil {
				return err
			}

			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&caseMode, "case", "none", "Case mapping for words (none|upper|lower|title)")
	cmd.Flags().StringVar(&dictPath, "dict", "", "YAML or JSON file of word replacements, applied before --case")

	return cmd
}

func buildWordFunc(caseMode, dictPath string) (text.WordFunc, error) {
	mode, err := text.ParseCase(caseMode)
	if err != nil {
		return nil, err
	}

	var replace text.WordFunc
	if dictPath != "" {
		dict, err := text.LoadDictionary(dictPath)
		if err != nil {
			return nil, err
		}
		replace = dict.Replace
	}

	return text.Chain(replace, text.CaseMapper(mode)), nil
}
