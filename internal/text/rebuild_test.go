package text

import (
	"errors"
	"testing"

	"github.com/example/go-retok/internal/tokenizer"
)

func TestRebuild(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  RebuildOptions
		want  string
	}{
		{
			name:  "no options round trips",
			input: "Hello, big world!",
			want:  "Hello, big world!",
		},
		{
			name:  "word substitution",
			input: "run fast",
			opts:  RebuildOptions{Replace: map[int]string{0: "sprint"}},
			want:  "sprint fast",
		},
		{
			name:  "drop punctuation",
			input: "Hello, big world!",
			opts:  RebuildOptions{Drop: []tokenizer.Kind{tokenizer.Punctuation}},
			want:  "Hellobig world",
		},
		{
			name:  "drop everything but words",
			input: "a, b c.",
			opts:  RebuildOptions{Drop: []tokenizer.Kind{tokenizer.Punctuation, tokenizer.Whitespace}},
			want:  "abc",
		},
		{
			name:  "replace dropped punctuation index",
			input: "a, b",
			opts: RebuildOptions{
				Replace: map[int]string{1: " and "},
				Drop:    []tokenizer.Kind{tokenizer.Punctuation},
				Strict:  true,
			},
			want: "a and b",
		},
		{
			name:  "replacement wins on collision",
			input: "a, b",
			opts:  RebuildOptions{Replace: map[int]string{1: "; "}},
			want:  "a; b",
		},
		{
			name:  "replace whitespace and word together",
			input: "hello big world",
			opts:  RebuildOptions{Replace: map[int]string{1: "_", 2: "small"}},
			want:  "hello_small world",
		},
		{
			name:  "replace dropped whitespace index",
			input: "a b c",
			opts: RebuildOptions{
				Replace: map[int]string{3: "-"},
				Drop:    []tokenizer.Kind{tokenizer.Whitespace},
				Strict:  true,
			},
			want: "ab-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := tokenizer.New(tt.input)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.input, err)
			}

			got, err := Rebuild(tok, tt.opts)
			if err != nil {
				t.Fatalf("Rebuild: %v", err)
			}
			if got != tt.want {
				t.Errorf("Rebuild = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestRebuild_Errors(t *testing.T) {
	tok, err := tokenizer.New("a, b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		opts RebuildOptions
		want error
	}{
		{"strict collision", RebuildOptions{Replace: map[int]string{1: "; "}, Strict: true}, tokenizer.ErrOverlap},
		{"index past end", RebuildOptions{Replace: map[int]string{3: "c"}}, ErrIndexOutOfRange},
		{"negative index", RebuildOptions{Replace: map[int]string{-1: "c"}}, ErrIndexOutOfRange},
		{"drop words", RebuildOptions{Drop: []tokenizer.Kind{tokenizer.Word}}, ErrDropWords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rebuild(tok, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Rebuild error = %v; want %v", err, tt.want)
			}
		})
	}
}
