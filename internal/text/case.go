package text

import (
	"fmt"
	"strings"
)

// Case modes accepted by ParseCase.
const (
	CaseNone  = "none"
	CaseUpper = "upper"
	CaseLower = "lower"
	CaseTitle = "title"
)

// ParseCase normalizes a case mode name. An empty string means CaseNone.
func ParseCase(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return CaseNone, nil
	case CaseNone, CaseUpper, CaseLower, CaseTitle:
		return mode, nil
	default:
		return "", fmt.Errorf(
			"invalid case mode %q (expected %s|%s|%s|%s)",
			raw, CaseNone, CaseUpper, CaseLower, CaseTitle,
		)
	}
}

// CaseMapper returns the WordFunc for a mode returned by ParseCase, or nil
// for CaseNone.
func CaseMapper(mode string) WordFunc {
	switch mode {
	case CaseUpper:
		return strings.ToUpper
	case CaseLower:
		return strings.ToLower
	case CaseTitle:
		return titleWord
	default:
		return nil
	}
}

// titleWord upper-cases the first ASCII letter or digit and lower-cases the
// rest, so "don't" becomes "Don't" and "'TWAS" becomes "'Twas".
func titleWord(word string) string {
	b := []byte(strings.ToLower(word))
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
			break
		}
		if c >= '0' && c <= '9' {
			break
		}
	}
	return string(b)
}
