package text

import (
	"testing"

	"github.com/example/go-retok/internal/tokenizer"
)

func TestSummarize(t *testing.T) {
	tok, err := tokenizer.New("Hello, big world!")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := Summarize(tok)
	want := Stats{Bytes: 17, Segments: 6, Words: 3, Punctuation: 2, Whitespace: 1}
	if got != want {
		t.Errorf("Summarize = %+v; want %+v", got, want)
	}
}
