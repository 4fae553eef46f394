package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// watchInterval is the minimum time between re-renders in watch mode.
const watchInterval = 250 * time.Millisecond

var highlightCmd = &cobra.Command{
	Use:   "highlight [text...]",
	Short: "Highlight terms in text",
	Long: heredoc.Doc(`
		Find search terms in text and print it with every match marked.

		Text comes from --file, the arguments, or standard input, in that
		order. Terms come from --query, where quoted phrases are kept
		together, and from repeated --term flags tagged with --kind.
		Overlapping matches resolve to the earliest, then the longest.
	`),
	Example: heredoc.Doc(`
		scopeiq highlight -q '"fire rating" gypsum' -f spec.txt
		cat rfi.txt | scopeiq highlight -t "Level 3" --kind entity -t slab
		scopeiq highlight -q concrete -f spec.txt --format html --standalone > spec.html
		scopeiq highlight -q concrete -f spec.txt --format json
		scopeiq highlight -q concrete -f spec.txt --watch
	`),
	Annotations: map[string]string{skipStores: "true"},
	RunE:        runHighlight,
}

func init() {
	f := highlightCmd.Flags()
	f.StringP("file", "f", "", "read text from file")
	f.StringP("query", "q", "", "free-text query; quoted phrases stay together")
	f.StringArrayP("term", "t", nil, "literal term to highlight (repeatable)")
	f.String("kind", string(domain.TermKindCustom), "kind applied to --term values")
	f.Bool("case-sensitive", false, "match case exactly")
	f.Bool("whole-words", false, "only match whole words")
	f.Int("max-matches", 0, "maximum number of matches (default from settings)")
	f.String("format", "", "output format: ansi, html, plain, json, yaml")
	f.Bool("css", false, "print the style sheet for --format and exit")
	f.Bool("standalone", false, "wrap html output in a complete page")
	f.BoolP("watch", "w", false, "re-highlight --file whenever it changes")
	rootCmd.AddCommand(highlightCmd)
}

// highlightRequest is a fully resolved highlight invocation.
type highlightRequest struct {
	terms      []domain.SearchTerm
	opts       domain.MatchOptions
	format     domain.RenderFormat
	standalone bool
	title      string
}

// highlightReport is the structured json/yaml output.
type highlightReport struct {
	Terms   []domain.SearchTerm `json:"terms" yaml:"terms"`
	Count   int                 `json:"count" yaml:"count"`
	Matches []highlightMatch    `json:"matches" yaml:"matches"`
}

type highlightMatch struct {
	Start int             `json:"start" yaml:"start"`
	End   int             `json:"end" yaml:"end"`
	Kind  domain.TermKind `json:"kind" yaml:"kind"`
	Term  string          `json:"term" yaml:"term"`
	Text  string          `json:"text" yaml:"text"`
}

func runHighlight(cmd *cobra.Command, args []string) error {
	if highlightService == nil {
		return errors.New("highlight service not configured")
	}

	settings := currentSettings()
	flags := cmd.Flags()

	format := settings.Render.Format
	if flags.Changed("format") {
		value, _ := flags.GetString("format")
		format = domain.RenderFormat(strings.ToLower(strings.TrimSpace(value)))
	}
	if !format.IsValid() {
		return fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedType)
	}

	if css, _ := flags.GetBool("css"); css {
		sheet, err := highlightService.StyleSheet(format)
		if err != nil {
			return err
		}
		cmd.Print(sheet)
		return nil
	}

	req, err := highlightRequestFromFlags(cmd, settings)
	if err != nil {
		return err
	}
	req.format = format

	path, _ := flags.GetString("file")
	watch, _ := flags.GetBool("watch")
	if watch && path == "" {
		return fmt.Errorf("--watch requires --file: %w", domain.ErrInvalidInput)
	}

	text, err := readHighlightInput(cmd, path, args)
	if err != nil {
		return err
	}
	if path != "" {
		req.title = filepath.Base(path)
	}

	if err := printHighlight(cmd, text, req); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)
	return watchFile(cmd.Context(), path, limiter, func() error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cmd.Printf("\n--- %s updated %s ---\n", path, time.Now().Format("15:04:05"))
		return printHighlight(cmd, string(data), req)
	})
}

// currentSettings returns the stored settings, or defaults when the
// settings service is missing or fails.
func currentSettings() domain.AppSettings {
	if settingsService == nil {
		return domain.DefaultAppSettings()
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("settings unavailable, using defaults: %v", err)
		return domain.DefaultAppSettings()
	}
	return *settings
}

func highlightRequestFromFlags(cmd *cobra.Command, settings domain.AppSettings) (highlightRequest, error) {
	flags := cmd.Flags()
	req := highlightRequest{opts: matchOptionsFromFlags(cmd, settings.Highlight.MatchOptions())}
	req.standalone, _ = flags.GetBool("standalone")

	if query, _ := flags.GetString("query"); strings.TrimSpace(query) != "" {
		req.terms = append(req.terms, highlightService.ParseQuery(query, req.opts.CaseSensitive)...)
	}

	kind, _ := flags.GetString("kind")
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return req, fmt.Errorf("--kind must not be empty: %w", domain.ErrInvalidInput)
	}
	values, _ := flags.GetStringArray("term")
	for _, v := range values {
		if v == "" {
			continue
		}
		req.terms = append(req.terms, domain.SearchTerm{Text: v, Kind: domain.TermKind(kind)})
	}

	if len(req.terms) == 0 {
		return req, fmt.Errorf("no terms given, use --query or --term: %w", domain.ErrInvalidInput)
	}
	return req, nil
}

// matchOptionsFromFlags overrides base with any match flags set on cmd.
func matchOptionsFromFlags(cmd *cobra.Command, base domain.MatchOptions) domain.MatchOptions {
	flags := cmd.Flags()
	if flags.Changed("case-sensitive") {
		base.CaseSensitive, _ = flags.GetBool("case-sensitive")
	}
	if flags.Changed("whole-words") {
		base.WholeWordsOnly, _ = flags.GetBool("whole-words")
	}
	if flags.Changed("max-matches") {
		base.MaxMatches, _ = flags.GetInt("max-matches")
	}
	return base
}

func readHighlightInput(cmd *cobra.Command, path string, args []string) (string, error) {
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func printHighlight(cmd *cobra.Command, text string, req highlightRequest) error {
	out, err := renderHighlight(text, req)
	if err != nil {
		return err
	}
	cmd.Print(out)
	if !strings.HasSuffix(out, "\n") {
		cmd.Println()
	}
	return nil
}

func renderHighlight(text string, req highlightRequest) (string, error) {
	spans := highlightService.Find(text, req.terms, req.opts)

	switch req.format {
	case domain.RenderJSON:
		data, err := json.MarshalIndent(newHighlightReport(text, req.terms, spans), "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal matches: %w", err)
		}
		return string(data), nil
	case domain.RenderYAML:
		data, err := yaml.Marshal(newHighlightReport(text, req.terms, spans))
		if err != nil {
			return "", fmt.Errorf("marshal matches: %w", err)
		}
		return string(data), nil
	}

	out, err := highlightService.Render(text, spans, req.format)
	if err != nil {
		return "", err
	}
	if req.format == domain.RenderHTML && req.standalone {
		css, err := highlightService.StyleSheet(domain.RenderHTML)
		if err != nil {
			return "", err
		}
		title := req.title
		if title == "" {
			title = "scopeiq"
		}
		out = render.Document(title, css, out)
	}
	return out, nil
}

func newHighlightReport(text string, terms []domain.SearchTerm, spans []domain.MatchSpan) highlightReport {
	report := highlightReport{
		Terms:   terms,
		Count:   len(spans),
		Matches: make([]highlightMatch, 0, len(spans)),
	}
	for _, s := range spans {
		m := highlightMatch{
			Start: s.Start,
			End:   s.End,
			Kind:  s.Kind.OrDefault(),
			Text:  text[s.Start:s.End],
		}
		if s.SourceTermIndex >= 0 && s.SourceTermIndex < len(terms) {
			m.Term = terms[s.SourceTermIndex].Text
		}
		report.Matches = append(report.Matches, m)
	}
	return report
}

// watchFile calls onChange each time path is written or recreated, at most
// once per limiter token, until ctx is done. The parent directory is
// watched so editors that replace the file on save are still seen.
func watchFile(ctx context.Context, path string, limiter *rate.Limiter, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	logger.Debug("watching %s", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", path, err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			if !drainEvents(watcher.Events) {
				return nil
			}
			if err := onChange(); err != nil {
				logger.Warn("re-highlight %s: %v", path, err)
			}
		}
	}
}

// drainEvents discards queued events. It returns false if the channel closed.
func drainEvents(events <-chan fsnotify.Event) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
