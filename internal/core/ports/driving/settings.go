package driving

import "github.com/custodia-labs/scopeiq-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates one setting by its dotted key, e.g. "highlight.max_matches".
	Set(key, value string) error

	// SetHighlightDefaults updates the default match options.
	SetHighlightDefaults(opts domain.MatchOptions) error

	// SetRenderFormat updates the default output format.
	SetRenderFormat(format domain.RenderFormat) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// GetPipelineConfig returns the post-processor pipeline configuration.
	GetPipelineConfig() domain.PipelineConfig
}
