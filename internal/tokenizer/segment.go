package tokenizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a segment.
type Kind int

const (
	Word Kind = iota + 1
	Punctuation
	Whitespace
)

// Kinds lists every segment kind in classification priority order.
var Kinds = []Kind{Word, Punctuation, Whitespace}

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Punctuation:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the names produced by Kind.String, case-insensitively.
// "punc" and "space" are accepted as short forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word":
		return Word, nil
	case "punctuation", "punc":
		return Punctuation, nil
	case "whitespace", "space":
		return Whitespace, nil
	default:
		return 0, fmt.Errorf("unknown segment kind %q (want word|punctuation|whitespace)", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Word, Punctuation, Whitespace:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal %s", k)
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Segment is one classified, contiguous, non-empty substring of the input.
type Segment struct {
	Index int    `json:"index"`
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
}

// Character classes used by classify. They mirror the ASCII letters, digits,
// punctuation and whitespace sets of the C locale.
const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	punctuation  = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	whitespace   = " \t\n\r\v\f"
)

// segmentPattern alternates between apostrophe-bearing word runs and runs of
// anything that is not an ASCII letter or digit. The second branch is allowed
// to mix punctuation and whitespace in one match.
var segmentPattern = regexp.MustCompile(`\b[a-zA-Z0-9']+\b|[^a-zA-Z0-9]+`)

// split cuts text into raw segments. Bytes that segmentPattern never starts a
// match on (alphanumerics glued to '_', where \b does not hold) are emitted as
// their own segments so the concatenation of the result is always text.
func split(text string) []string {
	if text == "" {
		return nil
	}

	locs := segmentPattern.FindAllStringIndex(text, -1)
	raw := make([]string, 0, 2*len(locs)+1)

	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			raw = append(raw, text[pos:loc[0]])
		}
		if loc[1] > loc[0] {
			raw = append(raw, text[loc[0]:loc[1]])
		}
		pos = loc[1]
	}
	if pos < len(text) {
		raw = append(raw, text[pos:])
	}

	return raw
}

// classify applies first-match priority: any letter or digit makes a Word,
// then any punctuation, then any whitespace. A run of "," and " " is therefore
// a single Punctuation segment.
func classify(s string) (Kind, bool) {
	switch {
	case strings.ContainsAny(s, alphanumeric):
		return Word, true
	case strings.ContainsAny(s, punctuation):
		return Punctuation, true
	case strings.ContainsAny(s, whitespace):
		return Whitespace, true
	default:
		return 0, false
	}
}
