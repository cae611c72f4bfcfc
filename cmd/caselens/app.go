package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caselens/caselens/internal/config"
	"github.com/caselens/caselens/internal/home"
	"github.com/caselens/caselens/internal/prompts"
	"github.com/caselens/caselens/internal/providers"
	"github.com/caselens/caselens/internal/schema"
)

// app bundles the pieces most commands need: resolved home directory,
// config, logger, and the file-backed stores.
type app struct {
	Home    *home.Dir
	Config  *config.Config
	Manager *config.Manager
	Logger  *slog.Logger
	Schemas *schema.Store
	Prompts *prompts.Store
}

// newApp resolves the home directory and loads configuration.
func newApp() (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}

	cfgPath := cfgFile
	if cfgPath == "" && h.ConfigExists() {
		cfgPath = h.ConfigPath()
	}
	cm, err := config.NewManager(cfgPath)
	if err != nil {
		return nil, err
	}

	return &app{
		Home:    h,
		Config:  cm.Get(),
		Manager: cm,
		Logger:  logger,
		Schemas: schema.NewStore(h.SchemasPath(), logger),
		Prompts: prompts.NewStore(h.PromptsPath(), logger),
	}, nil
}

// client builds the generation client for the named provider, falling
// back to the configured default.
func (a *app) client(name string) (providers.Client, error) {
	if name == "" {
		name = a.Config.Defaults.Provider
	}
	cc, ok := a.Config.ClientConfig(name)
	if !ok {
		return nil, fmt.Errorf("provider %q is not configured", name)
	}
	return providers.NewClient(cc)
}

// loadSchema loads the named schema tree, falling back to the configured
// default name, seeding the starter schema on first use.
func (a *app) loadSchema(name string) (string, *schema.Tree, error) {
	if name == "" {
		name = a.Config.Defaults.Schema
	}
	if !a.Schemas.Exists(name) {
		if name != a.Config.Defaults.Schema {
			return "", nil, fmt.Errorf("schema %q does not exist (run 'caselens schema init')", name)
		}
		tree := schema.DefaultTree()
		if err := a.Schemas.Save(name, tree); err != nil {
			return "", nil, err
		}
		a.Logger.Info("seeded default schema", "name", name)
		return name, tree, nil
	}
	tree, err := a.Schemas.Load(name)
	if err != nil {
		return "", nil, err
	}
	return name, tree, nil
}
