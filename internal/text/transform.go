// Package text rewrites the word tokens of a tokenized input while keeping
// its punctuation and whitespace byte-for-byte.
package text

import (
	"github.com/example/go-retok/internal/tokenizer"
)

// WordFunc maps one word token to its replacement.
type WordFunc func(word string) string

// Chain composes fns left to right. Nil entries are skipped.
func Chain(fns ...WordFunc) WordFunc {
	return func(word string) string {
		for _, fn := range fns {
			if fn != nil {
				word = fn(word)
			}
		}
		return word
	}
}

// Transform applies fn to every word token of tok and reassembles the text.
// A nil fn returns the original input.
func Transform(tok *tokenizer.Tokenizer, fn WordFunc) string {
	if fn == nil {
		return tok.Untokenize()
	}

	words := tok.WordTokens()
	for i, w := range words {
		words[i] = fn(w)
	}
	return tok.UntokenizeWith(words)
}

// TransformString tokenizes s and applies Transform.
func TransformString(s string, fn WordFunc) (string, error) {
	tok, err := tokenizer.New(s)
	if err != nil {
		return "", err
	}
	return Transform(tok, fn), nil
}
