package tokenizer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorizedToken matches any *UnauthorizedTokenError via errors.Is.
	ErrUnauthorizedToken = errors.New("unauthorized token")
	// ErrOverlap matches any *OverlapError via errors.Is.
	ErrOverlap = errors.New("overlapping token index")
)

// UnauthorizedTokenError reports a segment that contains no letter, digit,
// punctuation or whitespace character, such as a run of non-ASCII symbols.
type UnauthorizedTokenError struct {
	Index int
	Text  string
}

func (e *UnauthorizedTokenError) Error() string {
	return fmt.Sprintf("unauthorized token at position %d: %q", e.Index, e.Text)
}

func (e *UnauthorizedTokenError) Unwrap() error { return ErrUnauthorizedToken }

// OverlapError reports an index present in more than one mapping passed to
// UntokenizeStrict.
type OverlapError struct {
	Index int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("token index %d supplied by more than one mapping", e.Index)
}

func (e *OverlapError) Unwrap() error { return ErrOverlap }
