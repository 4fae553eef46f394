// Package highlight finds and merges highlight spans for literal search
// terms in a text body.
//
// The package is a pure library: no I/O, no shared state, no allocation
// survives a call. It is used by the search service for snippets, by the
// renderers for segmenting text, and directly by the highlight command.
//
// # Offsets
//
// Every span is a half-open byte range [Start, End) into the original
// UTF-8 text, always on rune boundaries. Callers slice the text with
// text[span.Start:span.End].
//
// # Case folding
//
// Case-insensitive matching uses Unicode simple case folding: each rune is
// replaced with the smallest rune of its unicode.SimpleFold orbit, the same
// equivalence strings.EqualFold uses. Folding can change a rune's UTF-8
// width (KELVIN SIGN folds to 'K'), so the folded text keeps a map back to
// original offsets. Full folding (ß to "ss") and Unicode normalisation are
// not applied: "é" written as one code point does not match "e" followed by
// a combining acute accent.
//
// # Words
//
// For whole-word matching a word rune is a Unicode letter, digit, mark or
// underscore. The start and end of the text count as boundaries.
//
// # Merging
//
// Candidates from all terms are merged by start ascending, then longer
// span first, then lower term index first. A sweep keeps a candidate only
// when it starts at or after the end of the last kept span, so listing a
// phrase before its words gives the phrase priority.
package highlight
