// Package doctor provides environment preflight checks for retok.
package doctor

import (
	"fmt"
	"io"
	"net"
	"runtime"

	"github.com/example/go-retok/internal/config"
	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Policy is the configured untokenize policy.
	Policy string
	// ListenAddr is probed with ProbeListen when both are set.
	ListenAddr string
	// ProbeListen reports whether addr can be bound. Nil skips the check.
	ProbeListen func(addr string) error
	// Dictionaries is the list of replacement dictionaries to load.
	Dictionaries []string
	// Corpus is tokenized and rebuilt as a self-test. Nil uses SelfTestCorpus.
	Corpus []string
}

// SelfTestCorpus exercises contractions, underscores, mixed
// punctuation/whitespace runs and every ASCII whitespace character.
var SelfTestCorpus = []string{
	"",
	"Hello, world!",
	"I don't know -- it's 5 o'clock.",
	"snake_case and__double",
	" \t\n\r\v\f",
	"''quoted'' (parens) [brackets] {braces}",
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	fmt.Fprintf(w, "%s go runtime: %s %s/%s\n", PassMark, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	// ---- untokenize policy -------------------------------------------------
	if policy, err := config.NormalizePolicy(cfg.Policy); err != nil {
		res.fail(fmt.Sprintf("untokenize policy: %v", err))
		fmt.Fprintf(w, "%s untokenize policy: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s untokenize policy: %s\n", PassMark, policy)
	}

	// ---- listen address ----------------------------------------------------
	switch {
	case cfg.ProbeListen == nil || cfg.ListenAddr == "":
		fmt.Fprintf(w, "%s listen address: skipped\n", PassMark)
	default:
		if err := cfg.ProbeListen(cfg.ListenAddr); err != nil {
			res.fail(fmt.Sprintf("listen address %s: %v", cfg.ListenAddr, err))
			fmt.Fprintf(w, "%s listen address %s: %v\n", FailMark, cfg.ListenAddr, err)
		} else {
			fmt.Fprintf(w, "%s listen address: %s\n", PassMark, cfg.ListenAddr)
		}
	}

	// ---- dictionaries ------------------------------------------------------
	for _, path := range cfg.Dictionaries {
		dict, err := text.LoadDictionary(path)
		if err != nil {
			res.fail(fmt.Sprintf("dictionary %q: %v", path, err))
			fmt.Fprintf(w, "%s dictionary %s: %v\n", FailMark, path, err)
			continue
		}
		fmt.Fprintf(w, "%s dictionary: %s (%d entries)\n", PassMark, path, len(dict))
	}

	// ---- round-trip self-test ---------------------------------------------
	corpus := cfg.Corpus
	if corpus == nil {
		corpus = SelfTestCorpus
	}
	if err := selfTest(corpus); err != nil {
		res.fail(fmt.Sprintf("round trip: %v", err))
		fmt.Fprintf(w, "%s round trip: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s round trip: %d samples\n", PassMark, len(corpus))
	}

	return res
}

// ProbeListen binds addr on TCP and releases it immediately.
func ProbeListen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}

func selfTest(corpus []string) error {
	for i, s := range corpus {
		tok, err := tokenizer.New(s)
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		if got := tok.UntokenizeWith(tok.WordTokens()); got != s {
			return fmt.Errorf("sample %d: rebuilt %q, want %q", i, got, s)
		}
		if _, err := tok.UntokenizeStrict(nil); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}
