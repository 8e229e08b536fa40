package doctor_test

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/example/go-retok/internal/doctor"
	"github.com/example/go-retok/internal/testutil"
)

var errAddrInUse = errors.New("address already in use")

func hasFailureContaining(failures []string, substr string) bool {
	for _, f := range failures {
		if strings.Contains(strings.ToLower(f), substr) {
			return true
		}
	}

	return false
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	cfg := doctor.Config{
		Policy:      "strict",
		ListenAddr:  ":8080",
		ProbeListen: func(string) error { return nil },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	for _, want := range []string{"go runtime", "untokenize policy: strict", "listen address: :8080", "round trip"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should mention %q:\n%s", want, out.String())
		}
	}
}

func TestRun_EmptyPolicyDefaultsToStrict(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{}, &out)

	if result.Failed() {
		t.Fatalf("unexpected failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "untokenize policy: strict") {
		t.Errorf("expected strict policy in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "listen address: skipped") {
		t.Errorf("expected skipped listen check:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// policy
// ---------------------------------------------------------------------------

func TestRun_InvalidPolicyFails(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{Policy: "first-wins"}, &out)

	if !result.Failed() {
		t.Fatal("expected failure for unknown policy")
	}

	if !hasFailureContaining(result.Failures(), "policy") {
		t.Errorf("expected failure mentioning policy, got: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// listen address
// ---------------------------------------------------------------------------

func TestRun_ListenAddressInUseFails(t *testing.T) {
	cfg := doctor.Config{
		ListenAddr:  ":8080",
		ProbeListen: func(string) error { return errAddrInUse },
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "listen address") {
		t.Errorf("expected listen failure, got: %v", result.Failures())
	}
	if !strings.Contains(out.String(), doctor.FailMark) {
		t.Errorf("output should contain FailMark:\n%s", out.String())
	}
}

func TestProbeListen(t *testing.T) {
	if err := doctor.ProbeListen("127.0.0.1:0"); err != nil {
		t.Fatalf("ProbeListen on ephemeral port: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()

	if err := doctor.ProbeListen(ln.Addr().String()); err == nil {
		t.Error("expected error probing an address that is already bound")
	}
}

// ---------------------------------------------------------------------------
// dictionaries
// ---------------------------------------------------------------------------

func TestRun_Dictionaries(t *testing.T) {
	good := testutil.WriteFile(t, "good.yaml", "colour: color\nfavour: favor\n")
	bad := testutil.WriteFile(t, "bad.yaml", "- not\n- a map\n")

	cfg := doctor.Config{Dictionaries: []string{good, bad, "/nonexistent/dict.yaml"}}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if got := len(result.Failures()); got != 2 {
		t.Fatalf("expected 2 dictionary failures, got %d: %v", got, result.Failures())
	}
	if !strings.Contains(out.String(), "(2 entries)") {
		t.Errorf("expected entry count for good dictionary:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// self-test
// ---------------------------------------------------------------------------

func TestRun_SelfTestRejectsUnauthorizedSample(t *testing.T) {
	cfg := doctor.Config{Corpus: []string{"fine", "résumé"}}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "round trip") {
		t.Errorf("expected round trip failure, got: %v", result.Failures())
	}
}

func TestRun_AddFailure(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(doctor.Config{}, &out)
	result.AddFailure("external check")

	if !result.Failed() || result.Failures()[0] != "external check" {
		t.Errorf("unexpected failures: %v", result.Failures())
	}
}
