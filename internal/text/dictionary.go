package text

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Dictionary maps words to replacements. Lookups try the exact word first,
// then its lower-case form; a lower-case hit on a capitalized word keeps the
// capital.
type Dictionary map[string]string

// LoadDictionary reads a flat word→replacement map from a YAML or JSON file.
func LoadDictionary(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return ParseDictionary(data)
}

// ParseDictionary decodes a YAML (or JSON) mapping of strings.
func ParseDictionary(data []byte) (Dictionary, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}

	d := make(Dictionary, len(raw))
	for k, v := range raw {
		if k == "" {
			return nil, fmt.Errorf("decode dictionary: empty key")
		}
		d[k] = v
	}
	return d, nil
}

// Replace returns the replacement for word, or word itself when the
// dictionary has no entry.
func (d Dictionary) Replace(word string) string {
	if r, ok := d[word]; ok {
		return r
	}

	lower := strings.ToLower(word)
	r, ok := d[lower]
	if !ok {
		return word
	}
	if lower != word && word[0] >= 'A' && word[0] <= 'Z' && r != "" {
		first, size := utf8.DecodeRuneInString(r)
		return string(unicode.ToUpper(first)) + r[size:]
	}
	return r
}
