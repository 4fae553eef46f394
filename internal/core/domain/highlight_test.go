package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermKind_OrDefault(t *testing.T) {
	assert.Equal(t, TermKindSearch, TermKind("").OrDefault())
	assert.Equal(t, TermKindEntity, TermKindEntity.OrDefault())
	assert.Equal(t, TermKind("rfi"), TermKind("rfi").OrDefault())
}

func TestBuiltinTermKinds(t *testing.T) {
	kinds := BuiltinTermKinds()

	assert.Len(t, kinds, 4)
	assert.Equal(t, TermKindPhrase, kinds[0])
	assert.Contains(t, kinds, TermKindCustom)
}

func TestDefaultMatchOptions(t *testing.T) {
	opts := DefaultMatchOptions()

	assert.False(t, opts.CaseSensitive)
	assert.False(t, opts.WholeWordsOnly)
	assert.Equal(t, 50, opts.MaxMatches)
}

func TestMatchSpan_Len(t *testing.T) {
	assert.Equal(t, 5, MatchSpan{Start: 0, End: 5}.Len())
	assert.Equal(t, 1, MatchSpan{Start: 9, End: 10}.Len())
}

func TestMatchSpan_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b MatchSpan
		want bool
	}{
		{"disjoint", MatchSpan{Start: 0, End: 3}, MatchSpan{Start: 5, End: 7}, false},
		{"adjacent", MatchSpan{Start: 0, End: 3}, MatchSpan{Start: 3, End: 7}, false},
		{"partial", MatchSpan{Start: 0, End: 4}, MatchSpan{Start: 3, End: 7}, true},
		{"contained", MatchSpan{Start: 0, End: 17}, MatchSpan{Start: 0, End: 12}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}
