package text

import (
	"errors"
	"fmt"
	"slices"

	"github.com/example/go-retok/internal/tokenizer"
)

var (
	// ErrIndexOutOfRange is returned when a replacement targets an index the
	// tokenizer never produced.
	ErrIndexOutOfRange = errors.New("replacement index out of range")
	// ErrDropWords is returned when Drop names the word kind.
	ErrDropWords = errors.New("word tokens cannot be dropped")
)

// RebuildOptions selects how Rebuild reassembles a tokenized input.
type RebuildOptions struct {
	// Replace overrides segment text by index. Under Strict, replacing a
	// non-word index collides with that segment's own mapping unless its
	// kind is dropped.
	Replace map[int]string
	// Drop omits whole kinds from the output. Only Punctuation and
	// Whitespace may be dropped.
	Drop []tokenizer.Kind
	// Strict rejects index collisions instead of letting the later
	// mapping win.
	Strict bool
}

// Rebuild reassembles tok after applying opts. Without options it returns the
// original input.
func Rebuild(tok *tokenizer.Tokenizer, opts RebuildOptions) (string, error) {
	if slices.Contains(opts.Drop, tokenizer.Word) {
		return "", ErrDropWords
	}

	// Replacements of word segments edit the word mapping in place. The rest
	// form a final mapping so that, without Strict, an explicit replacement
	// overrides the segment it targets.
	words := tok.WordTokens()
	var extra tokenizer.Mapping
	for i, r := range opts.Replace {
		seg, ok := tok.Segment(i)
		if !ok {
			return "", fmt.Errorf("%w: %d (have %d segments)", ErrIndexOutOfRange, i, tok.Len())
		}
		if seg.Kind == tokenizer.Word {
			words[i] = r
			continue
		}
		if extra == nil {
			extra = make(tokenizer.Mapping)
		}
		extra[i] = r
	}

	var others []tokenizer.Mapping
	for _, k := range []tokenizer.Kind{tokenizer.Whitespace, tokenizer.Punctuation} {
		if !slices.Contains(opts.Drop, k) {
			others = append(others, tok.Mapping(k))
		}
	}
	if extra != nil {
		others = append(others, extra)
	}
	if len(others) == 0 {
		// An explicit empty mapping keeps UntokenizeWith from restoring the
		// default whitespace and punctuation mappings.
		others = []tokenizer.Mapping{{}}
	}

	if opts.Strict {
		return tok.UntokenizeStrict(words, others...)
	}
	return tok.UntokenizeWith(words, others...), nil
}
