package highlight

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func span(start, end, term int) domain.MatchSpan {
	return domain.MatchSpan{Start: start, End: end, SourceTermIndex: term}
}

func TestMergeSpans(t *testing.T) {
	tests := []struct {
		name       string
		candidates []domain.MatchSpan
		maxMatches int
		want       []domain.MatchSpan
	}{
		{
			name:       "empty",
			candidates: nil,
			maxMatches: 10,
			want:       []domain.MatchSpan{},
		},
		{
			name:       "sorted by start",
			candidates: []domain.MatchSpan{span(10, 12, 0), span(0, 3, 1), span(5, 6, 0)},
			maxMatches: 10,
			want:       []domain.MatchSpan{span(0, 3, 1), span(5, 6, 0), span(10, 12, 0)},
		},
		{
			name:       "longest wins at equal start",
			candidates: []domain.MatchSpan{span(0, 3, 0), span(0, 8, 1)},
			maxMatches: 10,
			want:       []domain.MatchSpan{span(0, 8, 1)},
		},
		{
			name:       "lowest term index wins identical spans",
			candidates: []domain.MatchSpan{span(2, 4, 3), span(2, 4, 1), span(2, 4, 2)},
			maxMatches: 10,
			want:       []domain.MatchSpan{span(2, 4, 1)},
		},
		{
			name:       "overlap with kept span dropped",
			candidates: []domain.MatchSpan{span(0, 5, 0), span(3, 9, 1), span(5, 7, 2)},
			maxMatches: 10,
			want:       []domain.MatchSpan{span(0, 5, 0), span(5, 7, 2)},
		},
		{
			name:       "dropped span does not block later ones",
			candidates: []domain.MatchSpan{span(0, 4, 0), span(2, 10, 1), span(6, 8, 0)},
			maxMatches: 10,
			want:       []domain.MatchSpan{span(0, 4, 0), span(6, 8, 0)},
		},
		{
			name:       "cap keeps earliest",
			candidates: []domain.MatchSpan{span(8, 9, 0), span(0, 1, 0), span(4, 5, 0), span(2, 3, 0)},
			maxMatches: 2,
			want:       []domain.MatchSpan{span(0, 1, 0), span(2, 3, 0)},
		},
		{
			name:       "zero cap",
			candidates: []domain.MatchSpan{span(0, 1, 0)},
			maxMatches: 0,
			want:       []domain.MatchSpan{},
		},
		{
			name:       "negative cap",
			candidates: []domain.MatchSpan{span(0, 1, 0)},
			maxMatches: -1,
			want:       []domain.MatchSpan{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeSpans(tt.candidates, tt.maxMatches)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeSpans_KindFollowsKeptSpan(t *testing.T) {
	candidates := []domain.MatchSpan{
		{Start: 0, End: 4, SourceTermIndex: 1, Kind: domain.TermKindSearch},
		{Start: 0, End: 9, SourceTermIndex: 0, Kind: domain.TermKindPhrase},
	}

	got, err := MergeSpans(candidates, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TermKindPhrase, got[0].Kind)
}

func TestMergeSpans_InvalidCandidates(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.MatchSpan
	}{
		{"negative start", span(-1, 2, 0)},
		{"empty span", span(3, 3, 0)},
		{"end before start", span(5, 4, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := []domain.MatchSpan{span(0, 1, 0), tt.candidate}

			got, err := MergeSpans(candidates, 10)
			require.ErrorIs(t, err, domain.ErrInvalidSpan)
			assert.Nil(t, got)

			// Validation runs before the cap is applied.
			_, err = MergeSpans(candidates, 0)
			assert.ErrorIs(t, err, domain.ErrInvalidSpan)
		})
	}
}

func TestMergeSpans_DoesNotMutateInput(t *testing.T) {
	candidates := []domain.MatchSpan{span(9, 10, 0), span(0, 3, 1), span(1, 2, 0)}
	before := slices.Clone(candidates)

	_, err := MergeSpans(candidates, 10)
	require.NoError(t, err)

	assert.Equal(t, before, candidates)
}

func TestMergeSpans_Idempotent(t *testing.T) {
	candidates := []domain.MatchSpan{
		span(4, 9, 2), span(0, 3, 0), span(2, 6, 1), span(10, 11, 0), span(10, 14, 3), span(12, 13, 1),
	}

	for _, limit := range []int{1, 2, 3, 50} {
		once, err := MergeSpans(candidates, limit)
		require.NoError(t, err)
		twice, err := MergeSpans(once, limit)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "limit %d", limit)
		assert.LessOrEqual(t, len(once), limit)
	}
}
