package text

import "github.com/example/go-retok/internal/tokenizer"

// Stats summarizes a tokenized input.
type Stats struct {
	Bytes       int `json:"bytes"`
	Segments    int `json:"segments"`
	Words       int `json:"words"`
	Punctuation int `json:"punctuation"`
	Whitespace  int `json:"whitespace"`
}

// Summarize counts the segments of tok by kind.
func Summarize(tok *tokenizer.Tokenizer) Stats {
	return Stats{
		Bytes:       len(tok.Text()),
		Segments:    tok.Len(),
		Words:       tok.Count(tokenizer.Word),
		Punctuation: tok.Count(tokenizer.Punctuation),
		Whitespace:  tok.Count(tokenizer.Whitespace),
	}
}
