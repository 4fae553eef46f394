package highlight

import (
	"fmt"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// Validate checks that spans is a well-formed result for text: every span
// inside [0, len(text)) with start < end, ascending and non-overlapping.
func Validate(text string, spans []domain.MatchSpan) error {
	prevEnd := 0
	for i, s := range spans {
		switch {
		case s.Start < 0 || s.End <= s.Start || s.End > len(text):
			return fmt.Errorf("span %d [%d,%d) outside text of %d bytes: %w",
				i, s.Start, s.End, len(text), domain.ErrInvalidSpan)
		case s.Start < prevEnd:
			return fmt.Errorf("span %d [%d,%d) overlaps or precedes previous end %d: %w",
				i, s.Start, s.End, prevEnd, domain.ErrInvalidSpan)
		}
		prevEnd = s.End
	}
	return nil
}

// Segments slices text into alternating plain and highlighted segments.
// Concatenating the Text of every segment yields text. Highlighted
// segments carry the span's kind, defaulting to search.
func Segments(text string, spans []domain.MatchSpan) ([]domain.Segment, error) {
	if err := Validate(text, spans); err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			segments = append(segments, domain.Segment{Text: text[pos:s.Start], Start: pos, End: s.Start})
		}
		segments = append(segments, domain.Segment{
			Text:        text[s.Start:s.End],
			Start:       s.Start,
			End:         s.End,
			Highlighted: true,
			Kind:        s.Kind.OrDefault(),
		})
		pos = s.End
	}
	if pos < len(text) {
		segments = append(segments, domain.Segment{Text: text[pos:], Start: pos, End: len(text)})
	}

	return segments, nil
}

// Clip returns the spans lying entirely within [from, to), shifted so that
// offsets are relative to from. Spans crossing either edge are dropped.
func Clip(spans []domain.MatchSpan, from, to int) []domain.MatchSpan {
	clipped := make([]domain.MatchSpan, 0, len(spans))
	for _, s := range spans {
		if s.Start < from || s.End > to {
			continue
		}
		s.Start -= from
		s.End -= from
		clipped = append(clipped, s)
	}
	return clipped
}
