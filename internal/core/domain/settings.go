package domain

import "time"

const unknownDescription = "Unknown"

// ColorMode defines when styled output is used.
type ColorMode string

// Available colour modes.
const (
	// ColorModeAuto uses colour when the probed terminal supports it.
	ColorModeAuto ColorMode = "auto"

	// ColorModeAlways forces colour on.
	ColorModeAlways ColorMode = "always"

	// ColorModeNever forces colour off.
	ColorModeNever ColorMode = "never"
)

// IsValid returns true if the colour mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeAuto, ColorModeAlways, ColorModeNever:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ColorMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ColorMode) Description() string {
	switch m {
	case ColorModeAuto:
		return "Auto (detect terminal support)"
	case ColorModeAlways:
		return "Always (force colour)"
	case ColorModeNever:
		return "Never (plain output)"
	default:
		return unknownDescription
	}
}

// Apply adjusts probed capabilities according to the mode.
func (m ColorMode) Apply(caps Capabilities) Capabilities {
	switch m {
	case ColorModeAlways:
		if caps.Color == ColorNone {
			caps.Color = ColorANSI
		}
		caps.NoColorRequested = false
	case ColorModeNever:
		caps.Color = ColorNone
	case ColorModeAuto:
	}
	return caps
}

// HighlightSettings holds the default match options.
type HighlightSettings struct {
	CaseSensitive  bool
	WholeWordsOnly bool
	MaxMatches     int
}

// MatchOptions converts the settings to engine options.
func (h HighlightSettings) MatchOptions() MatchOptions {
	return MatchOptions{
		CaseSensitive:  h.CaseSensitive,
		WholeWordsOnly: h.WholeWordsOnly,
		MaxMatches:     h.MaxMatches,
	}
}

// RenderSettings holds output rendering configuration.
type RenderSettings struct {
	// Format is the default format for the highlight command.
	Format RenderFormat

	// Color controls styled terminal output.
	Color ColorMode
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// Limit is the default number of results.
	Limit int

	// SnippetRadius is the context kept around highlighted spans.
	SnippetRadius int
}

// CacheSettings holds document content cache configuration.
type CacheSettings struct {
	// TTL is how long cached content stays valid. Zero disables caching.
	TTL time.Duration

	// MaxEntries caps the number of cached documents.
	MaxEntries int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Highlight holds default match options.
	Highlight HighlightSettings

	// Render holds output settings.
	Render RenderSettings

	// Search holds search behaviour settings.
	Search SearchSettings

	// Pipeline holds post-processor configuration.
	Pipeline PipelineConfig

	// Cache holds content cache settings.
	Cache CacheSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Highlight: HighlightSettings{
			CaseSensitive:  false,
			WholeWordsOnly: false,
			MaxMatches:     DefaultMaxMatches,
		},
		Render: RenderSettings{
			Format: RenderANSI,
			Color:  ColorModeAuto,
		},
		Search: SearchSettings{
			Limit:         DefaultSearchLimit,
			SnippetRadius: DefaultSnippetRadius,
		},
		Pipeline: DefaultPipelineConfig(),
		Cache: CacheSettings{
			TTL:        5 * time.Minute,
			MaxEntries: 64,
		},
	}
}

// AllColorModes returns all available colour modes.
func AllColorModes() []ColorMode {
	return []ColorMode{ColorModeAuto, ColorModeAlways, ColorModeNever}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 1000,
				"overlap":    200,
			},
		},
	}
}
