package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFormat(t *testing.T) {
	for _, f := range AllRenderFormats() {
		assert.True(t, f.IsValid(), f.String())
	}
	assert.False(t, RenderFormat("pdf").IsValid())

	assert.True(t, RenderHTML.IsMarkup())
	assert.True(t, RenderANSI.IsMarkup())
	assert.True(t, RenderPlain.IsMarkup())
	assert.False(t, RenderJSON.IsMarkup())
	assert.False(t, RenderYAML.IsMarkup())
}

func TestColorLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ColorLevel
		ok   bool
	}{
		{"none", ColorNone, true},
		{"never", ColorNone, true},
		{"16", ColorANSI, true},
		{"ansi256", ColorANSI256, true},
		{"truecolor", ColorTrueColor, true},
		{"rainbow", ColorNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColorLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "ansi256", ColorANSI256.String())
	assert.Equal(t, unknownDescription, ColorLevel(9).String())
}

func TestCapabilities_SupportsColor(t *testing.T) {
	assert.True(t, Capabilities{Color: ColorANSI}.SupportsColor())
	assert.False(t, Capabilities{Color: ColorNone}.SupportsColor())
	assert.False(t, Capabilities{Color: ColorTrueColor, NoColorRequested: true}.SupportsColor())
}

func TestStyleSheet(t *testing.T) {
	var sheet StyleSheet

	added := sheet.Add(
		StyleRule{Selector: "mark.hl-search", Declarations: []string{"background: #ffe066;"}},
		StyleRule{Selector: "mark.hl-entity", Declarations: []string{"background: #a5d8ff", "font-weight: bold"}},
	)
	assert.Equal(t, 2, added)

	// Registering the same selectors again is a no-op.
	added = sheet.Add(StyleRule{Selector: "mark.hl-search", Declarations: []string{"background: red"}})
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, sheet.Len())

	want := "mark.hl-search { background: #ffe066; }\n" +
		"mark.hl-entity { background: #a5d8ff; font-weight: bold; }\n"
	assert.Equal(t, want, sheet.CSS())

	rules := sheet.Rules()
	rules[0].Selector = "changed"
	assert.Equal(t, "mark.hl-search", sheet.Rules()[0].Selector)
}

func TestStyleSheet_ZeroValue(t *testing.T) {
	var sheet StyleSheet
	assert.Empty(t, sheet.CSS())
	assert.Empty(t, sheet.Rules())
}
