package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glintlauncher/glint/internal/adapters/clipboard"
	"github.com/glintlauncher/glint/internal/adapters/index"
	"github.com/glintlauncher/glint/internal/adapters/logging"
	"github.com/glintlauncher/glint/internal/adapters/notify"
	"github.com/glintlauncher/glint/internal/adapters/system"
	"github.com/glintlauncher/glint/internal/adapters/usage"
	"github.com/glintlauncher/glint/internal/domain/action"
	"github.com/glintlauncher/glint/internal/domain/config"
	"github.com/glintlauncher/glint/internal/domain/plugin"
	"github.com/glintlauncher/glint/internal/domain/sandbox"
	"github.com/glintlauncher/glint/internal/domain/search"
	"github.com/glintlauncher/glint/internal/providers/abbrev"
	"github.com/glintlauncher/glint/internal/providers/apps"
	"github.com/glintlauncher/glint/internal/providers/browser"
	"github.com/glintlauncher/glint/internal/providers/cliphist"
	"github.com/glintlauncher/glint/internal/providers/files"
	"github.com/glintlauncher/glint/internal/ports"
)

// app wires the full pipeline from configuration.
type app struct {
	cfg       *config.Config
	logger    ports.Logger
	engine    *search.Engine
	host      *plugin.Host
	registry  *plugin.Registry
	performer *action.Performer
	usage     ports.UsageStore
}

// newApp builds the pipeline. The caller must call close when done.
func newApp(ctx context.Context) (*app, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := ports.LevelWarn
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(level),
	)

	usageStore, err := openUsage(cfg)
	if err != nil {
		return nil, err
	}

	registry := plugin.NewRegistry(plugin.WithFailureThreshold(cfg.FailureThreshold))
	loader := plugin.NewLoader()
	if len(cfg.PluginDirs) > 0 {
		loader = loader.WithSearchPaths(cfg.PluginDirs...)
	}
	host := plugin.NewHost(registry, sandbox.NewInterpreter(logger), loader, logger,
		plugin.WithExecutionTimeout(cfg.SandboxTimeout()))
	if err := host.Start(ctx); err != nil {
		logger.Warn(ctx, "plugin host degraded", ports.F("error", err.Error()))
	}

	abbrevs, err := abbrev.Load(filepath.Join(filepath.Dir(path), abbrev.FileName))
	if err != nil {
		logger.Warn(ctx, "abbreviations unavailable", ports.F("error", err.Error()))
		abbrevs = abbrev.New()
	}

	providers := []search.Provider{
		apps.New(index.NewApps(nil)),
		files.New(index.NewFiles(nil)),
		browser.New(index.NewBrowser(nil)),
		cliphist.New(index.NewClips(nil)),
		abbrevs,
		host,
	}

	dispatcher := search.NewDispatcher(logger, providers,
		search.WithProviderTimeout(cfg.ProviderTimeout()))
	engine := search.NewEngine(dispatcher, usageStore, logger,
		search.WithWeights(cfg.Weights),
		search.WithResultLimit(cfg.ResultLimit))

	performer := action.NewPerformer(
		system.NewLauncher(),
		clipboard.NewSystem(),
		notify.NewSystem(logger),
		usageStore,
		logger,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		host:      host,
		registry:  registry,
		performer: performer,
		usage:     usageStore,
	}, nil
}

func openUsage(cfg *config.Config) (ports.UsageStore, error) {
	path := cfg.UsageDBPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return usage.NewMemoryStore(), nil
		}
		path = filepath.Join(home, ".glint", "usage.db")
	}
	store, err := usage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening usage store: %w", err)
	}
	return store, nil
}

func (a *app) close() {
	_ = a.host.Stop()
	_ = a.usage.Close()
}
