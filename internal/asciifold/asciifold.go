// Package asciifold implements the fold_ascii collaborator assumed
// available by the word splitter and highlighter: transliteration of
// Unicode text to a best-effort ASCII form.
package asciifold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiTransformer decomposes to NFD, drops combining marks, and
// recomposes, turning most accented Latin letters (á, ö, ñ, ...) into
// their bare ASCII base letter.
var asciiTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatureFolds covers the letters NFD decomposition does not reach:
// true ligatures and letters with no combining-mark decomposition.
var ligatureFolds = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
)

// Fold transliterates s to ASCII: known ligatures are expanded, then
// remaining accented characters are decomposed and stripped of their
// combining marks, then any character that still isn't ASCII is
// dropped.
func Fold(s string) string {
	if isASCII(s) {
		return s
	}
	s = ligatureFolds.Replace(s)
	out, _, err := transform.String(asciiTransformer, s)
	if err != nil {
		out = s
	}
	return stripNonASCII(out)
}

// FoldRune folds a single rune to its ASCII expansion, which may be
// zero, one, or several characters long. It is used to build the
// highlighter's position map one input character at a time.
func FoldRune(r rune) string {
	if r < unicode.MaxASCII {
		return string(r)
	}
	return Fold(string(r))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= unicode.MaxASCII {
			return false
		}
	}
	return true
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
