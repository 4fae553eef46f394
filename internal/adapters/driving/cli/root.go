package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// EnvPrefix is the prefix for environment overrides of the root flags,
// e.g. SCOPEIQ_DATA_DIR.
const EnvPrefix = "SCOPEIQ"

// skipBootstrap marks commands that need no services at all.
const skipBootstrap = "skip-bootstrap"

// skipStores marks commands that work without the database and search index.
const skipStores = "skip-stores"

var version = "dev"

// Services consumed by the commands. Tests replace them directly.
var (
	highlightService    driving.HighlightService
	searchService       driving.SearchService
	documentService     driving.DocumentService
	projectService      driving.ProjectService
	settingsService     driving.SettingsService
	resultActionService driving.ResultActionService
	capabilityProbe     driven.CapabilityProbe
)

// Options are the process-level settings resolved from flags and environment.
type Options struct {
	// ConfigDir holds config.toml. Defaults to ~/.scopeiq.
	ConfigDir string

	// DataDir holds the database and search index. Defaults to ConfigDir/data.
	DataDir string

	// Verbose enables debug logging.
	Verbose bool

	// SkipStores leaves the database and search index closed. Only the
	// highlight, settings and capability services are built.
	SkipStores bool
}

// Services groups the driving ports the commands depend on.
type Services struct {
	Highlight    driving.HighlightService
	Search       driving.SearchService
	Document     driving.DocumentService
	Project      driving.ProjectService
	Settings     driving.SettingsService
	ResultAction driving.ResultActionService
	Capabilities driven.CapabilityProbe
}

// Bootstrap builds the services once flags are parsed. The returned
// function releases whatever the services hold open.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	cfg       = viper.New()
	bootstrap Bootstrap
	shutdown  func()
)

var rootCmd = &cobra.Command{
	Use:   "scopeiq",
	Short: "Search and highlight construction project documents",
	Long: heredoc.Doc(`
		scopeiq indexes specifications, RFIs, submittals and correspondence
		per project and highlights search terms inside them.

		Highlighting works on any text without an index:
		  echo "Cast-in-place concrete" | scopeiq highlight -q concrete

		Import documents into a project to search them:
		  scopeiq project add "Harbour Tower" --code HT-01
		  scopeiq document import <project-id> ./specs
		  scopeiq search "\"fire rating\" gypsum"
	`),
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(*cobra.Command, []string) {
		closeServices()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config directory (default $HOME/.scopeiq)")
	pf.String("data-dir", "", "data directory (default <config>/data)")
	pf.BoolP("verbose", "v", false, "enable debug logging")

	_ = cfg.BindPFlag("config", pf.Lookup("config"))
	_ = cfg.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = cfg.BindPFlag("verbose", pf.Lookup("verbose"))

	cfg.SetEnvPrefix(EnvPrefix)
	cfg.AutomaticEnv()
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	highlightService = s.Highlight
	searchService = s.Search
	documentService = s.Document
	projectService = s.Project
	settingsService = s.Settings
	resultActionService = s.ResultAction
	capabilityProbe = s.Capabilities
}

// SetBootstrap registers the function that builds services before a
// command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout so it can
// be piped; cobra would otherwise default to stderr.
func Execute(ctx context.Context) error {
	defer closeServices()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// ResolveOptions reads the root flags and SCOPEIQ_* environment.
func ResolveOptions() (Options, error) {
	configDir := cfg.GetString("config")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Options{}, fmt.Errorf("resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".scopeiq")
	}

	dataDir := cfg.GetString("data_dir")
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}

	return Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Verbose:   cfg.GetBool("verbose"),
	}, nil
}

func initServices(cmd *cobra.Command, _ []string) error {
	opts, err := ResolveOptions()
	if err != nil {
		return err
	}
	logger.SetVerbose(opts.Verbose)

	if bootstrap == nil || shutdown != nil || cmd.Annotations[skipBootstrap] != "" {
		return nil
	}

	logger.Section("Bootstrap")
	logger.Debug("config dir: %s", opts.ConfigDir)
	logger.Debug("data dir: %s", opts.DataDir)

	opts.SkipStores = cmd.Annotations[skipStores] != ""
	services, release, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	shutdown = release
	if shutdown == nil {
		shutdown = func() {}
	}
	return nil
}

func closeServices() {
	if shutdown == nil {
		return
	}
	release := shutdown
	shutdown = nil
	release()
}
