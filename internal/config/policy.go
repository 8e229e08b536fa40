package config

import (
	"fmt"
	"strings"
)

// Untokenize index collision policies.
const (
	PolicyStrict        = "strict"
	PolicyLastWriteWins = "last-write-wins"
)

func NormalizePolicy(raw string) (string, error) {
	policy := strings.ToLower(strings.TrimSpace(raw))
	if policy == "" {
		policy = PolicyStrict
	}
	switch policy {
	case PolicyStrict, PolicyLastWriteWins:
		return policy, nil
	case "lww", "last":
		return PolicyLastWriteWins, nil
	default:
		return "", fmt.Errorf(
			"invalid untokenize policy %q (expected %s|%s|lww)",
			raw,
			PolicyStrict,
			PolicyLastWriteWins,
		)
	}
}
