// Package keyfilter decides which translation keys are kept in a bundle.
package keyfilter

import "strings"

// Filter rejects keys that are listed exactly or that contain one of the
// ignored keywords (case-insensitive). The zero value accepts every key.
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	keys     map[string]struct{}
	keywords []string // lower-cased
}

// New builds a Filter from exact keys and keywords. Empty keywords are
// dropped, since they would match every key.
func New(ignoredKeys, ignoredKeywords []string) Filter {
	f := Filter{keys: make(map[string]struct{}, len(ignoredKeys))}
	for _, k := range ignoredKeys {
		f.keys[k] = struct{}{}
	}
	for _, kw := range ignoredKeywords {
		if kw == "" {
			continue
		}
		f.keywords = append(f.keywords, strings.ToLower(kw))
	}
	return f
}

// Parse builds a Filter from two comma- or space-separated lists, the form
// the build environment passes them in.
func Parse(ignoredKeys, ignoredKeywords string) Filter {
	return New(SplitList(ignoredKeys), SplitList(ignoredKeywords))
}

// SplitList splits s on commas and whitespace, dropping empty items.
func SplitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// Accepts reports whether key should be kept.
func (f Filter) Accepts(key string) bool {
	if _, ok := f.keys[key]; ok {
		return false
	}
	if len(f.keywords) == 0 {
		return true
	}
	lower := strings.ToLower(key)
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// Empty reports whether the filter accepts every key.
func (f Filter) Empty() bool {
	return len(f.keys) == 0 && len(f.keywords) == 0
}
