// Package app wires an editorkit host from configuration: logger, render
// cache, profile store, editor registry and the host service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madcok-co/editorkit/contrib/cache/redis"
	"github.com/madcok-co/editorkit/contrib/config"
	gormstore "github.com/madcok-co/editorkit/contrib/database/gorm"
	"github.com/madcok-co/editorkit/contrib/editor/codemirror"
	"github.com/madcok-co/editorkit/contrib/editor/tinymce"
	zaplog "github.com/madcok-co/editorkit/contrib/logger/zap"
	"github.com/madcok-co/editorkit/contrib/validator/playground"
	"github.com/madcok-co/editorkit/core/pkg/adapters/cache"
	"github.com/madcok-co/editorkit/core/pkg/adapters/editor/demo"
	"github.com/madcok-co/editorkit/core/pkg/adapters/editor/textarea"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/host"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"github.com/madcok-co/editorkit/core/pkg/registry"
	"github.com/madcok-co/editorkit/core/pkg/resilience"
	"github.com/madcok-co/editorkit/core/pkg/server"
)

// Options controls how the App is built
type Options struct {
	// ConfigFile is an explicit config file; empty searches ./editorkit.{yaml,json,toml}
	ConfigFile string

	// Overrides are applied as config defaults before reading the file
	Overrides map[string]any

	// Connect controls retries when reaching redis or the database;
	// nil uses resilience.DefaultBackoff
	Connect *resilience.Backoff

	// Watch re-applies editor defaults whenever the config file changes
	Watch bool
}

// App is a fully wired editorkit host
type App struct {
	Config    *config.HostConfig
	Logger    contracts.Logger
	Validator contracts.Validator
	Registry  *registry.Registry
	Service   *host.Service

	cfg     *config.Driver
	connect resilience.Backoff
	closers []func() error
}

// New loads configuration and wires every component
func New(ctx context.Context, opts Options) (*App, error) {
	cfgDriver, err := config.NewDriver(configFor(opts))
	if err != nil {
		return nil, err
	}

	v := playground.NewDriver()
	hostCfg, err := cfgDriver.Host(v)
	if err != nil {
		return nil, err
	}

	a := &App{Config: hostCfg, Validator: v, cfg: cfgDriver, connect: resilience.DefaultBackoff()}
	if opts.Connect != nil {
		a.connect = *opts.Connect
	}

	logger := zaplog.NewDriverWithConfig(&zaplog.Config{
		Level:  hostCfg.Log.Level,
		Format: hostCfg.Log.Format,
		Output: hostCfg.Log.Output,
	})
	a.Logger = logger
	a.connect.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn("backing service not ready, retrying", "attempt", attempt, "wait", wait, "error", err)
	}
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	a.Registry = NewRegistry(hostCfg, v, logger)

	c, err := a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	hostOpts := []host.Option{
		host.WithLogger(logger),
		host.WithValidator(v),
		host.WithStore(store),
		host.WithEditorDefaults(editorDefaults(hostCfg)),
	}
	if c != nil {
		hostOpts = append(hostOpts, host.WithCache(c))
		if hostCfg.Cache.TTL > 0 {
			hostOpts = append(hostOpts, host.WithTTL(hostCfg.Cache.TTL))
		}
	}
	a.Service = host.New(a.Registry, hostOpts...)

	if cfgDriver.Watching() {
		cfgDriver.OnChange(func() {
			if err := a.apply(context.Background()); err != nil {
				logger.WithError(err).Warn("config change rejected")
			}
		})
	}

	logger.Debug("editorkit ready",
		"config", cfgDriver.ConfigFileUsed(),
		"editors", a.Registry.Names(),
		"cache", hostCfg.Cache.Driver,
		"store", hostCfg.Database.Driver,
	)
	return a, nil
}

// NewRegistry registers the bundled editors configured from cfg
func NewRegistry(cfg *config.HostConfig, v contracts.Validator, logger contracts.Logger) *registry.Registry {
	cmOpts := []codemirror.Option{codemirror.WithValidator(v)}
	if cfg.CodeMirror.BaseURL != "" {
		cmOpts = append(cmOpts, codemirror.WithBaseURL(cfg.CodeMirror.BaseURL))
	}
	if cfg.CodeMirror.AssetDir != "" {
		cmOpts = append(cmOpts, codemirror.WithAssetDir(cfg.CodeMirror.AssetDir))
	}
	if len(cfg.CodeMirror.Languages) > 0 {
		cmOpts = append(cmOpts, codemirror.WithLanguages(cfg.CodeMirror.Languages...))
	}

	tmOpts := []tinymce.Option{tinymce.WithValidator(v), tinymce.WithAPIKey(cfg.TinyMCE.APIKey)}
	if cfg.TinyMCE.BaseURL != "" {
		tmOpts = append(tmOpts, tinymce.WithBaseURL(cfg.TinyMCE.BaseURL))
	}
	if cfg.TinyMCE.AssetDir != "" {
		tmOpts = append(tmOpts, tinymce.WithAssetDir(cfg.TinyMCE.AssetDir))
	}

	return registry.New(registry.WithLogger(logger)).MustRegister(
		textarea.NewFactory(),
		codemirror.NewFactory(cmOpts...),
		tinymce.NewFactory(tmOpts...),
		demo.NewFactory(),
	)
}

// Server builds the preview server from the server config
func (a *App) Server() *server.Server {
	sc := a.Config.Server
	cfg := server.DefaultConfig()
	cfg.Addr = sc.Addr
	cfg.Compress = sc.Compress
	if sc.ReadTimeout > 0 {
		cfg.ReadTimeout = sc.ReadTimeout
	}
	if sc.WriteTimeout > 0 {
		cfg.WriteTimeout = sc.WriteTimeout
	}
	if sc.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = sc.ShutdownTimeout
	}
	return server.New(a.Service, cfg, server.WithLogger(a.Logger))
}

// Reload re-reads the config file and applies the new editor defaults.
// Other settings (cache, store, server) need a restart.
func (a *App) Reload(ctx context.Context) error {
	if err := a.cfg.Reload(); err != nil {
		return err
	}
	return a.apply(ctx)
}

func (a *App) apply(ctx context.Context) error {
	hostCfg, err := a.cfg.Host(a.Validator)
	if err != nil {
		return err
	}
	if err := a.Service.SetEditorDefaults(ctx, editorDefaults(hostCfg)); err != nil {
		return err
	}
	a.Logger.Info("config reloaded", "config", a.cfg.ConfigFileUsed())
	return nil
}

// Candidates returns the configured default editor and its fallbacks
func (a *App) Candidates() []string {
	return a.Config.Candidates()
}

// Close releases every opened resource in reverse order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openCache(ctx context.Context) (contracts.Cache, error) {
	cc := a.Config.Cache
	switch cc.Driver {
	case "none":
		return nil, nil
	case "redis":
		d := redis.NewDriverWithConfig(cc)
		err := a.connect.Do(ctx, func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return d.Ping(pingCtx)
		})
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("redis cache %s: %w", cc.Addr, err)
		}
		a.closers = append(a.closers, d.Close)
		return d, nil
	default:
		c := cache.NewMemory(&cc)
		a.closers = append(a.closers, c.Close)
		return c, nil
	}
}

func (a *App) openStore(ctx context.Context) (profile.Store, error) {
	dc := a.Config.Database
	if dc.Driver != "sqlite" {
		return profile.NewMemoryStore(), nil
	}
	var d *gormstore.Driver
	err := a.connect.Do(ctx, func(ctx context.Context) error {
		var err error
		d, err = gormstore.OpenSQLite(ctx, dc.DSN)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, d.Close)
	return d, nil
}

func configFor(opts Options) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ConfigFile = opts.ConfigFile
	cfg.Defaults = opts.Overrides
	cfg.WatchConfig = opts.Watch
	return cfg
}

func editorDefaults(cfg *config.HostConfig) map[string]contracts.EditorConfig {
	out := make(map[string]contracts.EditorConfig, len(cfg.Editors))
	for name, values := range cfg.Editors {
		out[name] = contracts.EditorConfig(values)
	}
	return out
}
