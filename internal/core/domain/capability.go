package domain

// ColorLevel describes how many colours the output can show.
type ColorLevel int

// Colour levels, from none to 24-bit.
const (
	ColorNone ColorLevel = iota
	ColorANSI
	ColorANSI256
	ColorTrueColor
)

// String returns the string representation.
func (c ColorLevel) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorANSI:
		return "ansi"
	case ColorANSI256:
		return "ansi256"
	case ColorTrueColor:
		return "truecolor"
	default:
		return unknownDescription
	}
}

// ParseColorLevel parses a colour level name. Unknown names return false.
func ParseColorLevel(s string) (ColorLevel, bool) {
	switch s {
	case "none", "off", "never":
		return ColorNone, true
	case "ansi", "16":
		return ColorANSI, true
	case "ansi256", "256":
		return ColorANSI256, true
	case "truecolor", "24bit":
		return ColorTrueColor, true
	default:
		return ColorNone, false
	}
}

// Capabilities is the result of probing the output environment.
type Capabilities struct {
	// Color is the colour depth the output supports.
	Color ColorLevel `json:"color"`

	// Interactive is true when stdout is a terminal.
	Interactive bool `json:"interactive"`

	// Width is the terminal width in cells, or 0 when unknown.
	Width int `json:"width"`

	// DarkBackground is true when the terminal background is dark.
	DarkBackground bool `json:"dark_background"`

	// NoColorRequested is true when the user asked for no colour (NO_COLOR).
	NoColorRequested bool `json:"no_color_requested"`
}

// SupportsColor reports whether styled output should be emitted.
func (c Capabilities) SupportsColor() bool {
	return c.Color > ColorNone && !c.NoColorRequested
}
