package services

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCaseSensitive   = "highlight.case_sensitive"
	keyWholeWords      = "highlight.whole_words"
	keyMaxMatches      = "highlight.max_matches"
	keyRenderFormat    = "render.format"
	keyRenderColor     = "render.color"
	keySearchLimit     = "search.limit"
	keySnippetRadius   = "search.snippet_radius"
	keyCacheTTL        = "cache.ttl"
	keyCacheMaxEntries = "cache.max_entries"
	keyProcessors      = "pipeline.processors"
	keyChunkSize       = "pipeline.chunker.chunk_size"
	keyChunkOverlap    = "pipeline.chunker.overlap"
)

// settingParsers converts and validates the string form of each key
// accepted by Set.
var settingParsers = map[string]func(string) (any, error){
	keyCaseSensitive: parseBool,
	keyWholeWords:    parseBool,
	keyMaxMatches:    parseInt(0),
	keyRenderFormat: func(v string) (any, error) {
		f := domain.RenderFormat(strings.ToLower(v))
		if !f.IsValid() {
			return nil, fmt.Errorf("unknown render format %q: %w", v, domain.ErrInvalidInput)
		}
		return f.String(), nil
	},
	keyRenderColor: func(v string) (any, error) {
		m := domain.ColorMode(strings.ToLower(v))
		if !m.IsValid() {
			return nil, fmt.Errorf("unknown colour mode %q: %w", v, domain.ErrInvalidInput)
		}
		return m.String(), nil
	},
	keySearchLimit:   parseInt(1),
	keySnippetRadius: parseInt(0),
	keyCacheTTL: func(v string) (any, error) {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid duration %q: %w", v, domain.ErrInvalidInput)
		}
		return d.String(), nil
	},
	keyCacheMaxEntries: parseInt(1),
	keyProcessors: func(v string) (any, error) {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("at least one processor is required: %w", domain.ErrInvalidInput)
		}
		return names, nil
	},
	keyChunkSize:    parseInt(1),
	keyChunkOverlap: parseInt(0),
}

func parseBool(v string) (any, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q: %w", v, domain.ErrInvalidInput)
	}
	return b, nil
}

func parseInt(minimum int) func(string) (any, error) {
	return func(v string) (any, error) {
		n, err := strconv.Atoi(v)
		if err != nil || n < minimum {
			return nil, fmt.Errorf("expected an integer >= %d, got %q: %w", minimum, v, domain.ErrInvalidInput)
		}
		return n, nil
	}
}

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	return slices.Sorted(maps.Keys(settingParsers))
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Highlight: domain.HighlightSettings{
			CaseSensitive:  s.getBool(keyCaseSensitive, defaults.Highlight.CaseSensitive),
			WholeWordsOnly: s.getBool(keyWholeWords, defaults.Highlight.WholeWordsOnly),
			MaxMatches:     s.getInt(keyMaxMatches, defaults.Highlight.MaxMatches),
		},
		Render: domain.RenderSettings{
			Format: s.getRenderFormat(defaults.Render.Format),
			Color:  s.getColorMode(defaults.Render.Color),
		},
		Search: domain.SearchSettings{
			Limit:         s.getInt(keySearchLimit, defaults.Search.Limit),
			SnippetRadius: s.getInt(keySnippetRadius, defaults.Search.SnippetRadius),
		},
		Pipeline: s.GetPipelineConfig(),
		Cache: domain.CacheSettings{
			TTL:        s.getDuration(keyCacheTTL, defaults.Cache.TTL),
			MaxEntries: s.getInt(keyCacheMaxEntries, defaults.Cache.MaxEntries),
		},
	}

	return settings, nil
}

type storedValue struct {
	key   string
	value any
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}

	values := []storedValue{
		{keyCaseSensitive, settings.Highlight.CaseSensitive},
		{keyWholeWords, settings.Highlight.WholeWordsOnly},
		{keyMaxMatches, settings.Highlight.MaxMatches},
		{keyRenderFormat, settings.Render.Format.String()},
		{keyRenderColor, settings.Render.Color.String()},
		{keySearchLimit, settings.Search.Limit},
		{keySnippetRadius, settings.Search.SnippetRadius},
		{keyCacheTTL, settings.Cache.TTL.String()},
		{keyCacheMaxEntries, settings.Cache.MaxEntries},
	}
	if len(settings.Pipeline.Processors) > 0 {
		values = append(values, storedValue{keyProcessors, settings.Pipeline.Processors})
	}
	for name, cfg := range settings.Pipeline.ProcessorConfigs {
		for _, k := range slices.Sorted(maps.Keys(cfg)) {
			values = append(values, storedValue{"pipeline." + name + "." + k, cfg[k]})
		}
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set validates and stores a single setting given as text, as typed on
// the command line.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	key = strings.ToLower(strings.TrimSpace(key))
	parse, ok := settingParsers[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetHighlightDefaults updates the default match options.
func (s *SettingsService) SetHighlightDefaults(opts domain.MatchOptions) error {
	if opts.MaxMatches < 0 {
		return fmt.Errorf("max matches must not be negative: %w", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Highlight = domain.HighlightSettings{
		CaseSensitive:  opts.CaseSensitive,
		WholeWordsOnly: opts.WholeWordsOnly,
		MaxMatches:     opts.MaxMatches,
	}
	return s.Save(settings)
}

// SetRenderFormat updates the default output format.
func (s *SettingsService) SetRenderFormat(format domain.RenderFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("invalid render format: %s: %w", format, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Render.Format = format
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()
	if s.configStore == nil {
		return defaults
	}

	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		defaults.Processors = processors
	}

	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("pipeline." + name + ".")
		if len(cfg) == 0 {
			continue
		}
		existing := defaults.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		maps.Copy(existing, cfg)
		defaults.ProcessorConfigs[name] = existing
	}

	return defaults
}

// loadProcessorConfig collects every stored key under prefix.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range s.configStore.Keys() {
		name, ok := strings.CutPrefix(key, prefix)
		if !ok || strings.Contains(name, ".") {
			continue
		}
		if val, exists := s.configStore.Get(key); exists {
			cfg[name] = val
		}
	}
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetDuration(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getRenderFormat(defaultVal domain.RenderFormat) domain.RenderFormat {
	format := domain.RenderFormat(s.configStore.GetString(keyRenderFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

func (s *SettingsService) getColorMode(defaultVal domain.ColorMode) domain.ColorMode {
	mode := domain.ColorMode(s.configStore.GetString(keyRenderColor))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
