// Package testutil provides shared generators and fixtures for tests.
//
// The rapid generators produce inputs that the tokenizer always accepts
// (printable ASCII plus the ASCII whitespace characters), so property tests
// can assert round-trip behaviour without filtering.
//
// Typical usage:
//
//	rapid.Check(t, func(rt *rapid.T) {
//	    s := testutil.ASCIIText().Draw(rt, "text")
//	    ...
//	})
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// asciiRunes is every character the tokenizer classifies: letters, digits,
// punctuation and the six ASCII whitespace characters.
var asciiRunes = func() []rune {
	runes := []rune(" \t\n\r\v\f")
	for r := rune(0x21); r <= 0x7e; r++ {
		runes = append(runes, r)
	}
	return runes
}()

// ASCIIText draws arbitrary strings over the classified ASCII alphabet,
// including the empty string.
func ASCIIText() *rapid.Generator[string] {
	return rapid.StringOf(rapid.SampledFrom(asciiRunes))
}

// fragments bias Prose toward contractions, underscores and mixed runs.
var fragments = []string{
	"hello", "world", "don't", "it's", "o'clock", "rock'n'roll", "42", "x1",
	" ", "  ", "\t", "\n", "\r\n",
	",", ", ", ".", "...", "!", "?", " - ", "--", "'", "''", "_", "(", ")", "\"",
}

// Prose draws strings built from word-like and separator fragments.
func Prose() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.SampledFrom(fragments), 0, 40).Draw(t, "parts")
		return strings.Join(parts, "")
	})
}

// WriteFile writes content to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
