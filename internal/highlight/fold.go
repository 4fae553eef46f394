package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// foldRune maps r to the smallest rune in its simple case-folding orbit.
func foldRune(r rune) rune {
	lowest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lowest {
			lowest = f
		}
	}
	return lowest
}

// foldString folds every rune of s. Invalid bytes are copied unchanged.
func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && w == 1 {
			b.WriteByte(s[i])
		} else {
			b.WriteRune(foldRune(r))
		}
		i += w
	}
	return b.String()
}

// haystack is the searchable form of a text body.
type haystack struct {
	text string

	// folded is text with every rune folded, or text itself when
	// matching is case-sensitive.
	folded string

	// offsets maps a byte index of folded to the byte index of the rune it
	// came from in text, with a final entry for len(folded). Nil when
	// folded is text.
	offsets []int

	// starts marks byte indexes of folded where a rune begins, plus
	// len(folded).
	starts []bool
}

func newHaystack(text string, fold bool) *haystack {
	h := &haystack{text: text, starts: make([]bool, 0, len(text)+1)}

	if !fold {
		h.folded = text
		for i := 0; i < len(text); {
			_, w := utf8.DecodeRuneInString(text[i:])
			h.starts = append(h.starts, true)
			for j := 1; j < w; j++ {
				h.starts = append(h.starts, false)
			}
			i += w
		}
		h.starts = append(h.starts, true)
		return h
	}

	var b strings.Builder
	b.Grow(len(text))
	h.offsets = make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, w := utf8.DecodeRuneInString(text[i:])
		from := b.Len()
		if r == utf8.RuneError && w == 1 {
			b.WriteByte(text[i])
		} else {
			b.WriteRune(foldRune(r))
		}
		for j := from; j < b.Len(); j++ {
			h.offsets = append(h.offsets, i)
			h.starts = append(h.starts, j == from)
		}
		i += w
	}
	h.offsets = append(h.offsets, len(text))
	h.starts = append(h.starts, true)
	h.folded = b.String()
	return h
}

// original converts a byte index of folded to a byte index of text.
func (h *haystack) original(i int) int {
	if h.offsets == nil {
		return i
	}
	return h.offsets[i]
}

// isWordRune reports whether r continues a word.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// atWordBoundaries reports whether [start, end) of text is delimited by
// non-word runes or the text edges.
func atWordBoundaries(text string, start, end int) bool {
	if start > 0 {
		r, w := utf8.DecodeLastRuneInString(text[:start])
		if w > 0 && isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, w := utf8.DecodeRuneInString(text[end:])
		if w > 0 && isWordRune(r) {
			return false
		}
	}
	return true
}
