package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/example/go-retok/internal/config"
	"github.com/example/go-retok/internal/testutil"
	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
)

func TestTokenizeCmd_Table(t *testing.T) {
	out, err := runCLI(t, "", "tokenize", "--text", "Hello, world!")
	if err != nil {
		t.Fatalf("tokenize returned error: %v", err)
	}

	for _, want := range []string{"INDEX", `"Hello"`, `", "`, `"world"`, `"!"`, "punctuation", "word"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Errorf("expected header plus 4 rows, got %d lines:\n%s", lines, out)
	}
}

func TestTokenizeCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "a b.", "tokenize", "--format", "json")
	if err != nil {
		t.Fatalf("tokenize returned error: %v", err)
	}

	var got struct {
		Segments []tokenizer.Segment `json:"segments"`
		Stats    text.Stats          `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	want := []tokenizer.Segment{
		{Index: 0, Kind: tokenizer.Word, Text: "a"},
		{Index: 1, Kind: tokenizer.Whitespace, Text: " "},
		{Index: 2, Kind: tokenizer.Word, Text: "b"},
		{Index: 3, Kind: tokenizer.Punctuation, Text: "."},
	}
	if len(got.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(got.Segments), len(want), got.Segments)
	}
	for i := range want {
		if got.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v; want %+v", i, got.Segments[i], want[i])
		}
	}
	if got.Stats.Words != 2 || got.Stats.Bytes != 4 {
		t.Errorf("unexpected stats: %+v", got.Stats)
	}
}

func TestTokenizeCmd_EmptyJSONHasEmptyArray(t *testing.T) {
	out, err := runCLI(t, "", "tokenize", "--text", "", "--format", "json")
	if err != nil {
		t.Fatalf("tokenize returned error: %v", err)
	}
	if !strings.Contains(out, `"segments": []`) {
		t.Errorf("expected empty segments array, got:\n%s", out)
	}
}

func TestTokenizeCmd_InvalidFormat(t *testing.T) {
	_, err := runCLI(t, "", "tokenize", "--text", "x", "--format", "xml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTokenizeCmd_UnauthorizedToken(t *testing.T) {
	_, err := runCLI(t, "", "tokenize", "--text", "café")
	if !errors.Is(err, tokenizer.ErrUnauthorizedToken) {
		t.Fatalf("expected ErrUnauthorizedToken, got %v", err)
	}
}

func TestWordsCmd(t *testing.T) {
	out, err := runCLI(t, "", "words", "--text", "I don't know, 42 times.")
	if err != nil {
		t.Fatalf("words returned error: %v", err)
	}

	want := "I\ndon't\nknow\n42\ntimes\n"
	if out != want {
		t.Errorf("words output = %q; want %q", out, want)
	}
}

func TestUntokenizeCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "round trip", args: nil, want: "Hello, world!"},
		{name: "replace word", args: []string{"--replace", "0=Goodbye"}, want: "Goodbye, world!"},
		{name: "replace twice", args: []string{"--replace", "0=Hi", "--replace", "2=there"}, want: "Hi, there!"},
		{name: "drop punctuation", args: []string{"--drop", "punctuation"}, want: "Helloworld"},
		{name: "drop words rejected", args: []string{"--drop", "word"}, wantErr: true},
		{name: "overlap strict", args: []string{"--replace", "1=X"}, wantErr: true},
		{name: "overlap replacement wins", args: []string{"--replace", "1=X", "--policy", "last-write-wins"}, want: "HelloXworld!"},
		{name: "out of range", args: []string{"--replace", "9=X"}, wantErr: true},
		{name: "malformed replace", args: []string{"--replace", "zero"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"untokenize", "--text", "Hello, world!"}, tt.args...)
			out, err := runCLI(t, "", args...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("untokenize returned error: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q; want %q", out, tt.want)
			}
		})
	}
}

func TestUntokenizeCmd_ConfigPolicyApplies(t *testing.T) {
	out, err := runCLI(t, "", "--untokenize-policy", "last-write-wins",
		"untokenize", "--text", "Hello, world!", "--replace", "1=X")
	if err != nil {
		t.Fatalf("untokenize returned error: %v", err)
	}
	if out != "HelloXworld!" {
		t.Errorf("output = %q", out)
	}
}

func TestBuildRebuildOptions(t *testing.T) {
	opts, err := buildRebuildOptions([]string{"3= spaced "}, []string{"space"}, "", config.PolicyStrict)
	if err != nil {
		t.Fatalf("buildRebuildOptions returned error: %v", err)
	}
	if !opts.Strict {
		t.Error("expected strict policy")
	}
	if opts.Replace[3] != " spaced " {
		t.Errorf("replacement value should be kept verbatim, got %q", opts.Replace[3])
	}
	if len(opts.Drop) != 1 || opts.Drop[0] != tokenizer.Whitespace {
		t.Errorf("unexpected drop kinds: %v", opts.Drop)
	}

	opts, err = buildRebuildOptions(nil, nil, "lww", config.PolicyStrict)
	if err != nil {
		t.Fatalf("buildRebuildOptions returned error: %v", err)
	}
	if opts.Strict {
		t.Error("flag policy should override config policy")
	}

	if _, err := buildRebuildOptions(nil, []string{"emoji"}, "", config.PolicyStrict); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTransformCmd(t *testing.T) {
	dict := testutil.WriteFile(t, "dict.yaml", "colour: color\nfavourite: favorite\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no-op", args: nil, want: "My favourite colour, don't you think?"},
		{name: "upper", args: []string{"--case", "upper"}, want: "MY FAVOURITE COLOUR, DON'T YOU THINK?"},
		{name: "title", args: []string{"--case", "title"}, want: "My Favourite Colour, Don't You Think?"},
		{name: "dictionary", args: []string{"--dict", dict}, want: "My favorite color, don't you think?"},
		{name: "dictionary then case", args: []string{"--dict", dict, "--case", "upper"}, want: "MY FAVORITE COLOR, DON'T YOU THINK?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"transform", "--text", "My favourite colour, don't you think?"}, tt.args...)
			out, err := runCLI(t, "", args...)
			if err != nil {
				t.Fatalf("transform returned error: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q; want %q", out, tt.want)
			}
		})
	}
}

func TestTransformCmd_InvalidCase(t *testing.T) {
	_, err := runCLI(t, "", "transform", "--text", "x", "--case", "sponge")
	if err == nil {
		t.Fatal("expected error for invalid case mode")
	}
}

func TestCheckCmd(t *testing.T) {
	good := testutil.WriteFile(t, "good.txt", "Line one.\n\tLine two!\n")
	empty := testutil.WriteFile(t, "empty.txt", "")

	out, err := runCLI(t, "", "check", good, empty)
	if err != nil {
		t.Fatalf("check returned error: %v\n%s", err, out)
	}
	if strings.Count(out, "ok ") != 2 {
		t.Errorf("expected two ok lines, got:\n%s", out)
	}
	if !strings.Contains(out, "(8 segments, 4 words)") {
		t.Errorf("expected stats for good file, got:\n%s", out)
	}
}

func TestCheckCmd_ReportsFailures(t *testing.T) {
	good := testutil.WriteFile(t, "good.txt", "fine")
	bad := testutil.WriteFile(t, "bad.txt", "naïve")

	out, err := runCLI(t, "", "check", good, bad, "/does/not/exist.txt")
	if err == nil {
		t.Fatal("expected error when files fail")
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "FAIL "+bad) || !strings.Contains(out, "ok   "+good) {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestCheckCmd_RequiresArgs(t *testing.T) {
	if _, err := runCLI(t, "", "check"); err == nil {
		t.Fatal("expected error without file arguments")
	}
}

func TestRunCheck_PreservesOrder(t *testing.T) {
	paths := make([]string, 10)
	for i := range paths {
		paths[i] = testutil.WriteFile(t, "f.txt", strings.Repeat("word ", i))
	}

	results, err := runCheck(context.Background(), paths, 3)
	if err != nil {
		t.Fatalf("runCheck returned error: %v", err)
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q; want %q", i, r.Path, paths[i])
		}
		if r.Err != nil {
			t.Errorf("result %d unexpected error: %v", i, r.Err)
		}
		if r.Stats.Words != i {
			t.Errorf("result %d words = %d; want %d", i, r.Stats.Words, i)
		}
	}
}

func TestRunCheck_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := testutil.WriteFile(t, "f.txt", "x")
	if _, err := runCheck(ctx, []string{path}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestHealthCmd_Unreachable(t *testing.T) {
	_, err := runCLI(t, "", "health", "--addr", "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected error probing a closed port")
	}
}

func TestBenchCmd(t *testing.T) {
	out, err := runCLI(t, "", "bench", "--text", "one, two three.", "--runs", "2", "--format", "json")
	if err != nil {
		t.Fatalf("bench returned error: %v", err)
	}

	var report struct {
		Runs []struct {
			Segments int `json:"segments"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode bench output: %v\n%s", err, out)
	}
	if len(report.Runs) != 2 || report.Runs[0].Segments != 6 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBenchCmd_InvalidFlags(t *testing.T) {
	if _, err := runCLI(t, "", "bench", "--text", "x", "--runs", "0"); err == nil {
		t.Error("expected error for --runs 0")
	}
	if _, err := runCLI(t, "", "bench", "--text", "x", "--format", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDoctorCmd(t *testing.T) {
	dict := testutil.WriteFile(t, "dict.yaml", "a: b\n")

	out, err := runCLI(t, "", "doctor", "--skip-listen", "--dict", dict)
	if err != nil {
		t.Fatalf("doctor returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "doctor checks passed") || !strings.Contains(out, "log level: info") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorCmd_BadDictionaryFails(t *testing.T) {
	_, err := runCLI(t, "", "doctor", "--skip-listen", "--dict", "/nonexistent/dict.yaml")
	if err == nil {
		t.Fatal("expected doctor to fail on a missing dictionary")
	}
}

func TestDoctorCmd_InvalidLogLevelFails(t *testing.T) {
	out, err := runCLI(t, "", "--log-level", "verbose", "doctor", "--skip-listen")
	if err == nil {
		t.Fatal("expected doctor to fail on an unknown log level")
	}
	if !strings.Contains(out, "log level") {
		t.Errorf("expected log level line in output:\n%s", out)
	}
}
