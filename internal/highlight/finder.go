package highlight

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// FindMatches returns the merged, ordered, non-overlapping spans of every
// term occurring in text.
//
// Terms are literals scanned in the order given; empty terms are skipped.
// The result holds at most opts.MaxMatches spans, earliest first, and is
// empty when MaxMatches is zero or negative. FindMatches never fails for
// any input.
func FindMatches(text string, terms []domain.SearchTerm, opts domain.MatchOptions) []domain.MatchSpan {
	if text == "" || len(terms) == 0 || opts.MaxMatches <= 0 {
		return []domain.MatchSpan{}
	}

	h := newHaystack(text, !opts.CaseSensitive)

	var candidates []domain.MatchSpan
	for i, term := range terms {
		if term.Text == "" {
			continue
		}
		candidates = h.scan(candidates, i, term, opts)
	}

	spans, err := MergeSpans(candidates, opts.MaxMatches)
	if err != nil {
		// Candidates come from scan, which only emits start < end.
		panic(fmt.Sprintf("highlight: scan produced an invalid candidate: %v", err))
	}
	return spans
}

// scan appends every non-overlapping occurrence of term to dst.
func (h *haystack) scan(
	dst []domain.MatchSpan, index int, term domain.SearchTerm, opts domain.MatchOptions,
) []domain.MatchSpan {
	needle := term.Text
	if h.offsets != nil {
		needle = foldString(needle)
	}

	for pos := 0; pos+len(needle) <= len(h.folded); {
		idx := strings.Index(h.folded[pos:], needle)
		if idx < 0 {
			break
		}
		from := pos + idx
		to := from + len(needle)

		// A hit that splits a rune is not a match.
		if !h.starts[from] || !h.starts[to] {
			pos = from + 1
			continue
		}

		start, end := h.original(from), h.original(to)
		if opts.WholeWordsOnly && !atWordBoundaries(h.text, start, end) {
			pos = from + 1
			continue
		}

		dst = append(dst, domain.MatchSpan{
			Start:           start,
			End:             end,
			SourceTermIndex: index,
			Kind:            term.Kind,
		})
		pos = to
	}

	return dst
}
