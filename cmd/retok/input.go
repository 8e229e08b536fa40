package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// inputFlags selects where a command reads its text from.
type inputFlags struct {
	text string
	file string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "Input text (if unset, read --file or stdin)")
	cmd.Flags().StringVar(&f.file, "file", "", "Read input text from this file")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
}

// read returns the input verbatim. An explicitly empty --text is valid input;
// stdin is only consulted when neither flag is set.
func (f *inputFlags) read(cmd *cobra.Command) (string, error) {
	return readText(f.text, cmd.Flags().Changed("text"), f.file, cmd.InOrStdin())
}

func readText(text string, textSet bool, file string, stdin io.Reader) (string, error) {
	if textSet {
		return text, nil
	}

	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(b), nil
	}

	if stdin == nil {
		return "", fmt.Errorf("either provide --text, --file, or pipe text on stdin")
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
