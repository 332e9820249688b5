// Package highlight implements subword-prefix highlighting of a
// string against a set of query words, and the resulting immutable
// highlighted-string value.
package highlight

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mg52/prefixindex/internal/asciifold"
	"github.com/mg52/prefixindex/internal/wordsplit"
)

// simpleTagPattern recognizes only balanced, attribute-free HTML tags.
var simpleTagPattern = regexp.MustCompile(`</?[a-z]+>`)

// ErrInvalidHighlight is returned by NewHighlight for a negative start
// or non-positive length.
var ErrInvalidHighlight = errors.New("highlight: start must be non-negative and length must be positive")

// Highlight is an interval within an original value to be rendered
// emphasized.
type Highlight struct {
	Start  int
	Length int
}

// NewHighlight validates and constructs a Highlight.
func NewHighlight(start, length int) (Highlight, error) {
	if start < 0 || length < 1 {
		return Highlight{}, ErrInvalidHighlight
	}
	return Highlight{Start: start, Length: length}, nil
}

// Segment is a contiguous, tagged run of a HighlightedString's value.
type Segment struct {
	Value       string
	Highlighted bool
}

// HighlightedString pairs a value with a non-overlapping, sorted set
// of highlights.
type HighlightedString struct {
	value      string
	highlights []Highlight
}

// New constructs a HighlightedString without highlights.
func New(value string) *HighlightedString {
	return &HighlightedString{value: value}
}

// NewWithHighlights constructs a HighlightedString, sorting highlights
// by ascending start then descending length (matching the ordering
// used elsewhere so longer highlights at the same start are consumed
// first by Segments).
func NewWithHighlights(value string, highlights []Highlight) *HighlightedString {
	sorted := make([]Highlight, len(highlights))
	copy(sorted, highlights)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Length > sorted[j].Length
	})
	return &HighlightedString{value: value, highlights: sorted}
}

// Value returns the original string.
func (h *HighlightedString) Value() string {
	return h.value
}

// Highlights returns the sorted highlight list.
func (h *HighlightedString) Highlights() []Highlight {
	return h.highlights
}

// Segments derives the ordered, disjoint segment list. Overlapping
// highlights are clipped to the cursor, highlights exceeding the
// string length are trimmed, and zero-length results are dropped.
func (h *HighlightedString) Segments() []Segment {
	if h.value == "" {
		return nil
	}
	if len(h.highlights) == 0 {
		return []Segment{{Value: h.value, Highlighted: false}}
	}

	var result []Segment
	pos := 0
	max := len(h.value)
	for _, hl := range h.highlights {
		hStart, hLen := hl.Start, hl.Length
		if hStart < pos {
			hLen -= pos - hStart
			hStart = pos
			if hLen <= 0 {
				continue
			}
		}
		if hStart >= max {
			break
		}
		if hLen > max-hStart {
			hLen = max - hStart
		}
		if hLen <= 0 {
			continue
		}

		if hStart > pos {
			result = append(result, Segment{Value: h.value[pos:hStart], Highlighted: false})
			pos = hStart
		}
		result = append(result, Segment{Value: h.value[pos : pos+hLen], Highlighted: true})
		pos += hLen
	}
	if pos < max {
		result = append(result, Segment{Value: h.value[pos:], Highlighted: false})
	}
	return result
}

// Highlighter matches query words against subword-pattern boundaries
// in a value string, in text or HTML mode.
type Highlighter struct {
	pattern          *regexp.Regexp
	normalizeUnicode bool
}

// FromSplitter builds a Highlighter that shares its subword pattern
// and normalization setting with s, matching the default configuration
// where the search word splitter also serves as the highlighter.
func FromSplitter(s *wordsplit.Splitter) *Highlighter {
	return &Highlighter{pattern: s.Pattern(), normalizeUnicode: s.NormalizeUnicode()}
}

// Highlight highlights value against queryWords in plain-text mode.
func (h *Highlighter) Highlight(value string, queryWords map[string]struct{}) *HighlightedString {
	return h.highlight(value, queryWords, false)
}

// HighlightHTML highlights value against queryWords, treating simple
// tags in value as zero-width and excluding tag spans from any
// resulting highlight.
func (h *Highlighter) HighlightHTML(value string, queryWords map[string]struct{}) *HighlightedString {
	return h.highlight(value, queryWords, true)
}

func (h *Highlighter) highlight(value string, queryWords map[string]struct{}, html bool) *HighlightedString {
	if len(queryWords) == 0 {
		return New(value)
	}
	if strings.TrimSpace(value) == "" {
		return New(value)
	}

	sortedWords := sortQueryWords(queryWords)
	valueLower := strings.ToLower(value)

	lengthChanged := false
	valueTransformed := valueLower
	var posMap []int

	if h.normalizeUnicode || html {
		valueTransformed = asciifold.Fold(valueLower)
		if len(valueTransformed) != len(value) {
			lengthChanged = true
		}
		if html {
			before := len(valueTransformed)
			valueTransformed = removeSimpleTags(valueTransformed)
			if len(valueTransformed) != before {
				lengthChanged = true
			}
		}
		if lengthChanged {
			posMap = buildPositionMap(valueLower, html)
		}
	}

	var highlights []Highlight
	for _, loc := range h.pattern.FindAllStringIndex(valueTransformed, -1) {
		start := loc[0]
		for _, qw := range sortedWords {
			if strings.HasPrefix(valueTransformed[start:], qw) {
				length := len(qw)
				var hlStart, hlLength int
				if !lengthChanged {
					hlStart, hlLength = start, length
				} else {
					hlStart = posMap[start]
					hlLength = posMap[start+length] - hlStart
				}
				highlights = append(highlights, Highlight{Start: hlStart, Length: hlLength})
				break
			}
		}
	}

	if html {
		highlights = carveTags(value, highlights)
	}

	return NewWithHighlights(value, highlights)
}

// sortQueryWords orders words by descending length, then ascending
// lexicographic order, so longer prefixes mask shorter ones sharing a
// start position.
func sortQueryWords(words map[string]struct{}) []string {
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func removeSimpleTags(s string) string {
	return simpleTagPattern.ReplaceAllString(s, "")
}

// buildPositionMap scans inputLower (the lowercased original value)
// character by character, skipping whole HTML tag spans in HTML mode,
// and records for every produced normalized-output position the
// original input position just past its source character. The result
// has length len(normalized-output)+1.
func buildPositionMap(inputLower string, html bool) []int {
	var tagLenAt map[int]int
	if html {
		tagLenAt = make(map[int]int)
		for _, loc := range simpleTagPattern.FindAllStringIndex(inputLower, -1) {
			tagLenAt[loc[0]] = loc[1] - loc[0]
		}
	}

	posMap := make([]int, 1, 4*len(inputLower)+1)
	posMap[0] = 0

	inputPos := 0
	for inputPos < len(inputLower) {
		if html {
			if tagLen, ok := tagLenAt[inputPos]; ok {
				inputPos += tagLen
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(inputLower[inputPos:])
		nextInputPos := inputPos + size
		folded := asciifold.FoldRune(r)
		for range folded {
			posMap = append(posMap, nextInputPos)
		}
		inputPos = nextInputPos
	}
	return posMap
}

// carveTags subdivides each highlight (positions into the original
// value) so that any simple-tag span it covers is excluded, matching
// the HTML-mode rule that tags never render inside a highlight.
func carveTags(value string, highlights []Highlight) []Highlight {
	var result []Highlight
	for _, hl := range highlights {
		text := value[hl.Start : hl.Start+hl.Length]
		latest := 0
		for _, loc := range simpleTagPattern.FindAllStringIndex(text, -1) {
			if latest < loc[0] {
				result = append(result, Highlight{Start: hl.Start + latest, Length: loc[0] - latest})
			}
			latest = loc[1]
		}
		if latest < len(text) {
			result = append(result, Highlight{Start: hl.Start + latest, Length: len(text) - latest})
		}
	}
	return result
}
