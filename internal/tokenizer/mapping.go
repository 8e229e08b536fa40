package tokenizer

import (
	"slices"
	"strings"
)

// Mapping maps segment indices to segment text.
type Mapping map[int]string

// Indices returns the keys of m in ascending order.
func (m Mapping) Indices() []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Values returns the values of m ordered by index.
func (m Mapping) Values() []string {
	keys := m.Indices()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// Join concatenates the values of m in index order.
func (m Mapping) Join() string {
	var b strings.Builder
	for _, k := range m.Indices() {
		b.WriteString(m[k])
	}
	return b.String()
}

// Merge combines mappings into a new one. Later mappings overwrite earlier
// ones on a shared index.
func Merge(mappings ...Mapping) Mapping {
	size := 0
	for _, m := range mappings {
		size += len(m)
	}

	out := make(Mapping, size)
	for _, m := range mappings {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// MergeStrict combines mappings into a new one, failing with *OverlapError on
// the lowest index found in more than one mapping.
func MergeStrict(mappings ...Mapping) (Mapping, error) {
	out := Merge(mappings...)

	total := 0
	for _, m := range mappings {
		total += len(m)
	}
	if total == len(out) {
		return out, nil
	}

	seen := make(map[int]struct{}, len(out))
	var dups []int
	for _, m := range mappings {
		for k := range m {
			if _, dup := seen[k]; dup {
				dups = append(dups, k)
				continue
			}
			seen[k] = struct{}{}
		}
	}
	return nil, &OverlapError{Index: slices.Min(dups)}
}
