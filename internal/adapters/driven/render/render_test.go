package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

const sample = "Pour the slab & check <edge> detail"

var sampleSpans = []domain.MatchSpan{
	{Start: 9, End: 13, Kind: domain.TermKindPhrase},
	{Start: 22, End: 28, SourceTermIndex: 1},
}

func TestPlainRenderer(t *testing.T) {
	r := NewPlain()
	assert.Equal(t, domain.RenderPlain, r.Format())
	assert.Nil(t, r.StyleRules())

	tests := []struct {
		name  string
		text  string
		spans []domain.MatchSpan
		want  string
	}{
		{"no spans", "plain text", nil, "plain text"},
		{"empty text", "", nil, ""},
		{"kinds", sample, sampleSpans, "Pour the [[slab]]{phrase} & check [[<edge>]]{search} detail"},
		{"whole text", "slab", []domain.MatchSpan{{Start: 0, End: 4, Kind: "trade"}}, "[[slab]]{trade}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.text, tt.spans)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTMLRenderer(t *testing.T) {
	r := NewHTML()
	assert.Equal(t, domain.RenderHTML, r.Format())

	got, err := r.Render(sample, sampleSpans)
	require.NoError(t, err)
	assert.Equal(t,
		`Pour the <mark class="hl hl-phrase" data-kind="phrase">slab</mark> &amp; check `+
			`<mark class="hl hl-search" data-kind="search">&lt;edge&gt;</mark> detail`,
		got)

	t.Run("no spans escapes only", func(t *testing.T) {
		got, err := r.Render(`a "b" & c`, nil)
		require.NoError(t, err)
		assert.Equal(t, `a &#34;b&#34; &amp; c`, got)
	})
}

func TestHTMLRenderer_StyleRules(t *testing.T) {
	rules := NewHTML().StyleRules()
	require.Len(t, rules, 1+len(domain.BuiltinTermKinds()))

	selectors := make([]string, 0, len(rules))
	for _, rule := range rules {
		selectors = append(selectors, rule.Selector)
		assert.NotEmpty(t, rule.Declarations)
	}
	assert.Equal(t, []string{"mark.hl", "mark.hl-phrase", "mark.hl-search", "mark.hl-entity", "mark.hl-custom"}, selectors)
}

func TestKindClass(t *testing.T) {
	tests := []struct {
		kind domain.TermKind
		want string
	}{
		{"", "hl-search"},
		{"entity", "hl-entity"},
		{"sub_trade-2", "hl-sub_trade-2"},
		{"a b", "hl-a_20b"},
		{`x"y`, "hl-x_22y"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, kindClass(tt.kind))
		})
	}
}

func TestANSIRenderer(t *testing.T) {
	t.Run("colour", func(t *testing.T) {
		r := NewANSI(domain.Capabilities{Color: domain.ColorTrueColor, DarkBackground: true})
		assert.Equal(t, domain.RenderANSI, r.Format())
		assert.Nil(t, r.StyleRules())

		got, err := r.Render(sample, sampleSpans)
		require.NoError(t, err)
		assert.Contains(t, got, "\x1b[")
		assert.True(t, strings.HasPrefix(got, "Pour the "))
		assert.True(t, strings.HasSuffix(got, " detail"))
		assert.Contains(t, got, "slab")
		assert.Contains(t, got, "<edge>")
	})

	for _, caps := range []domain.Capabilities{
		{Color: domain.ColorNone},
		{Color: domain.ColorANSI256, NoColorRequested: true},
	} {
		t.Run("no colour "+caps.Color.String(), func(t *testing.T) {
			got, err := NewANSI(caps).Render(sample, sampleSpans)
			require.NoError(t, err)
			assert.Equal(t, sample, got)
		})
	}

	t.Run("unknown kind uses search style", func(t *testing.T) {
		r := NewANSI(domain.Capabilities{Color: domain.ColorANSI})
		assert.Equal(t, r.Style(domain.TermKindSearch).Render("x"), r.Style("trade").Render("x"))
	})
}

func TestRenderers_RejectInvalidSpans(t *testing.T) {
	bad := []domain.MatchSpan{{Start: 5, End: 3}}
	for _, r := range Defaults(domain.Capabilities{Color: domain.ColorANSI}) {
		t.Run(r.Format().String(), func(t *testing.T) {
			_, err := r.Render("some text", bad)
			require.ErrorIs(t, err, domain.ErrInvalidSpan)
		})
	}
}

func TestRenderers_DoNotMutateSpans(t *testing.T) {
	spans := append([]domain.MatchSpan(nil), sampleSpans...)
	for _, r := range Defaults(domain.Capabilities{Color: domain.ColorTrueColor}) {
		_, err := r.Render(sample, spans)
		require.NoError(t, err)
	}
	assert.Equal(t, sampleSpans, spans)
}

func TestDocument(t *testing.T) {
	var sheet domain.StyleSheet
	sheet.Add(NewHTML().StyleRules()...)
	sheet.Add(NewHTML().StyleRules()...)

	page := Document("Spec <03>", sheet.CSS(), "one", "two")

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Spec &lt;03&gt;</title>")
	assert.Equal(t, 1, strings.Count(page, "mark.hl-phrase {"))
	assert.Equal(t, 1, strings.Count(page, "<style>"))
	assert.Contains(t, page, "<pre>one</pre>\n<pre>two</pre>")

	bare := Document("x", "")
	assert.NotContains(t, bare, "<style>")
}
