package highlight

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// MergeSpans resolves overlapping candidates into an ordered,
// non-overlapping list of at most maxMatches spans.
//
// Candidates are ordered by start, then longer first, then lower
// SourceTermIndex first; a candidate overlapping an already kept span is
// dropped. A candidate with a negative start or an end not after its start
// is rejected with an error wrapping domain.ErrInvalidSpan. The input slice
// is not modified.
func MergeSpans(candidates []domain.MatchSpan, maxMatches int) ([]domain.MatchSpan, error) {
	for i, s := range candidates {
		if s.Start < 0 || s.End <= s.Start {
			return nil, fmt.Errorf("candidate %d [%d,%d): %w", i, s.Start, s.End, domain.ErrInvalidSpan)
		}
	}

	if maxMatches <= 0 || len(candidates) == 0 {
		return []domain.MatchSpan{}, nil
	}

	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, compareSpans)

	merged := make([]domain.MatchSpan, 0, min(len(sorted), maxMatches))
	for _, s := range sorted {
		if len(merged) == maxMatches {
			break
		}
		if n := len(merged); n > 0 && s.Start < merged[n-1].End {
			continue
		}
		merged = append(merged, s)
	}

	return merged, nil
}

func compareSpans(a, b domain.MatchSpan) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Len(), a.Len()); c != 0 {
		return c
	}
	return cmp.Compare(a.SourceTermIndex, b.SourceTermIndex)
}
