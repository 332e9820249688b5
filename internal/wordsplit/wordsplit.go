// Package wordsplit derives a set of normalized subwords from a
// string: lowercase, optionally ASCII-folded, matched against a
// configurable subword pattern.
package wordsplit

import (
	"regexp"
	"strings"

	"github.com/mg52/prefixindex/internal/asciifold"
)

// DefaultSubwordPattern matches maximal runs of lowercase letters and
// digits.
const DefaultSubwordPattern = `[a-z0-9]+`

// Splitter extracts normalized words from a string.
type Splitter struct {
	pattern          *regexp.Regexp
	normalizeUnicode bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithPattern overrides the subword regular expression. An empty
// pattern falls back to DefaultSubwordPattern.
func WithPattern(pattern string) Option {
	return func(s *Splitter) {
		if pattern == "" {
			pattern = DefaultSubwordPattern
		}
		s.pattern = regexp.MustCompile(pattern)
	}
}

// WithNormalizeUnicode toggles ASCII folding. Enabled by default.
func WithNormalizeUnicode(enabled bool) Option {
	return func(s *Splitter) { s.normalizeUnicode = enabled }
}

// New returns a Splitter with the default subword pattern and Unicode
// normalization enabled, as overridden by opts.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		pattern:          regexp.MustCompile(DefaultSubwordPattern),
		normalizeUnicode: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pattern returns the compiled subword pattern, shared with the
// highlighter so both agree on where words start.
func (s *Splitter) Pattern() *regexp.Regexp {
	return s.pattern
}

// NormalizeUnicode reports whether ASCII folding is enabled.
func (s *Splitter) NormalizeUnicode() bool {
	return s.normalizeUnicode
}

// Split lowercases value, optionally ASCII-folds it, and returns the
// deduplicated set of subword-pattern matches. The empty set is
// returned when there are no matches.
func (s *Splitter) Split(value string) map[string]struct{} {
	normalized := strings.ToLower(value)
	if s.normalizeUnicode {
		normalized = asciifold.Fold(normalized)
	}
	matches := s.pattern.FindAllString(normalized, -1)
	words := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		words[m] = struct{}{}
	}
	return words
}
