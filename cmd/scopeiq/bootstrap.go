package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/cache"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/render"
	bleveengine "github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/search/bleve"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/termcaps"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/services"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/docx"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/eml"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/html"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/plaintext"
	"github.com/custodia-labs/scopeiq-cli/internal/postprocessors"
)

// indexDir is the bleve index directory under the data dir.
const indexDir = "index.bleve"

// bootstrap wires every service. The stores are opened unless opts.SkipStores
// is set.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	probe := termcaps.New(os.Stdout)
	caps := settings.Render.Color.Apply(probe.Probe())

	svc := &cli.Services{
		Highlight:    services.NewHighlightService(render.Defaults(caps)...),
		Settings:     settingsService,
		ResultAction: services.NewResultActionService(),
		Capabilities: probe,
	}
	if opts.SkipStores {
		logger.Debug("stores not needed, skipping")
		return svc, func() {}, nil
	}

	release, err := openStores(svc, opts.DataDir, settings)
	if err != nil {
		return nil, nil, err
	}
	return svc, release, nil
}

// openStores opens the database and search index under dataDir and adds
// the services built on them to svc.
func openStores(svc *cli.Services, dataDir string, settings *domain.AppSettings) (func(), error) {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	engine, err := bleveengine.Open(filepath.Join(dataDir, indexDir))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open index: %w", err)
	}
	release := func() {
		if err := errors.Join(engine.Close(), store.Close()); err != nil {
			logger.Warn("close stores: %v", err)
		}
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, settings.Pipeline)
	if err != nil {
		release()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	normaliserRegistry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		eml.New(),
	)

	documentService := services.NewDocumentService(
		store.DocumentStore(), store.ProjectStore(), normaliserRegistry, pipeline,
	)
	documentService.SetSearchEngine(engine)
	if settings.Cache.TTL > 0 {
		documentService.SetContentCache(cache.New(settings.Cache.TTL, settings.Cache.MaxEntries))
	}

	projectService := services.NewProjectService(store.ProjectStore(), store.DocumentStore())
	projectService.SetSearchEngine(engine)

	searchService := services.NewSearchService(store.DocumentStore(), engine)
	searchService.SetProjectStore(store.ProjectStore())
	searchService.SetMatchOptions(settings.Highlight.MatchOptions())

	svc.Search = searchService
	svc.Document = documentService
	svc.Project = projectService
	return release, nil
}
