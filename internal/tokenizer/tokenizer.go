// Package tokenizer splits text into word, punctuation and whitespace
// segments that can be reassembled into the exact original input.
//
// Every segment carries its position index. Callers can take the per-kind
// index→text mappings, rewrite word tokens, and untokenize the result to get
// transformed text with the original spacing and punctuation intact.
package tokenizer

// Tokenizer holds the classified segments of one input text. It is
// immutable after New and safe for concurrent use.
type Tokenizer struct {
	text     string
	segments []Segment
	counts   [Whitespace + 1]int
}

// New segments and classifies text. It fails with *UnauthorizedTokenError
// when a segment holds none of the recognized character classes.
func New(text string) (*Tokenizer, error) {
	raw := split(text)
	t := &Tokenizer{
		text:     text,
		segments: make([]Segment, 0, len(raw)),
	}

	for _, s := range raw {
		if s == "" {
			continue
		}
		idx := len(t.segments)
		kind, ok := classify(s)
		if !ok {
			return nil, &UnauthorizedTokenError{Index: idx, Text: s}
		}
		t.segments = append(t.segments, Segment{Index: idx, Kind: kind, Text: s})
		t.counts[kind]++
	}

	return t, nil
}

// Text returns the input the tokenizer was built from.
func (t *Tokenizer) Text() string { return t.text }

// Len returns the total number of segments.
func (t *Tokenizer) Len() int { return len(t.segments) }

// Count returns the number of segments of the given kind.
func (t *Tokenizer) Count(kind Kind) int {
	if kind < Word || kind > Whitespace {
		return 0
	}
	return t.counts[kind]
}

// Segments returns a copy of all segments in index order.
func (t *Tokenizer) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

// Segment returns the segment at index i.
func (t *Tokenizer) Segment(i int) (Segment, bool) {
	if i < 0 || i >= len(t.segments) {
		return Segment{}, false
	}
	return t.segments[i], true
}

// Mapping returns a fresh index→text mapping holding the segments of the
// given kinds. With no kinds it holds every segment.
func (t *Tokenizer) Mapping(kinds ...Kind) Mapping {
	var want [Whitespace + 1]bool
	size := 0
	if len(kinds) == 0 {
		kinds = Kinds
	}
	for _, k := range kinds {
		if k >= Word && k <= Whitespace && !want[k] {
			want[k] = true
			size += t.counts[k]
		}
	}

	m := make(Mapping, size)
	for _, s := range t.segments {
		if want[s.Kind] {
			m[s.Index] = s.Text
		}
	}
	return m
}

// WordTokens returns a copy of the word mapping.
func (t *Tokenizer) WordTokens() Mapping { return t.Mapping(Word) }

// PuncTokens returns a copy of the punctuation mapping.
func (t *Tokenizer) PuncTokens() Mapping { return t.Mapping(Punctuation) }

// SpaceTokens returns a copy of the whitespace mapping.
func (t *Tokenizer) SpaceTokens() Mapping { return t.Mapping(Whitespace) }

// Words returns the word tokens in index order.
func (t *Tokenizer) Words() []string {
	out := make([]string, 0, t.counts[Word])
	for _, s := range t.segments {
		if s.Kind == Word {
			out = append(out, s.Text)
		}
	}
	return out
}

// TokenList returns the values of words ordered by index. A nil mapping
// selects the tokenizer's own word tokens.
func (t *Tokenizer) TokenList(words Mapping) []string {
	if words == nil {
		return t.Words()
	}
	return words.Values()
}

// Untokenize rebuilds the original text.
func (t *Tokenizer) Untokenize() string {
	n := 0
	for _, s := range t.segments {
		n += len(s.Text)
	}

	buf := make([]byte, 0, n)
	for _, s := range t.segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// UntokenizeWith merges words with others and joins the values in index
// order. A nil words mapping selects the tokenizer's word tokens; no others
// selects its whitespace and punctuation mappings. On a shared index the
// mapping listed later wins. Indices absent from every mapping are skipped.
func (t *Tokenizer) UntokenizeWith(words Mapping, others ...Mapping) string {
	return Merge(t.operands(words, others)...).Join()
}

// UntokenizeStrict is UntokenizeWith but fails with *OverlapError when two of
// the supplied mappings share an index.
func (t *Tokenizer) UntokenizeStrict(words Mapping, others ...Mapping) (string, error) {
	merged, err := MergeStrict(t.operands(words, others)...)
	if err != nil {
		return "", err
	}
	return merged.Join(), nil
}

func (t *Tokenizer) operands(words Mapping, others []Mapping) []Mapping {
	if words == nil {
		words = t.WordTokens()
	}
	if len(others) == 0 {
		others = []Mapping{t.SpaceTokens(), t.PuncTokens()}
	}
	return append([]Mapping{words}, others...)
}
