// Package host is the entry point for applications embedding editors: it
// renders editors by name or saved profile, caching rendered fragments.
package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"github.com/madcok-co/editorkit/core/pkg/registry"
	"github.com/madcok-co/editorkit/core/pkg/render"
)

const keyPrefix = "render:"

// DefaultTTL is how long rendered fragments stay cached
const DefaultTTL = 5 * time.Minute

// Service renders editors for a host application
type Service struct {
	registry  *registry.Registry
	cache     contracts.Cache
	store     profile.Store
	validator contracts.Validator
	logger    contracts.Logger
	ttl       time.Duration

	mu       sync.RWMutex
	defaults map[string]contracts.EditorConfig
}

// Option configures the Service
type Option func(*Service)

// WithCache enables fragment caching
func WithCache(c contracts.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithTTL sets the fragment cache TTL
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithStore sets the profile store (in-memory by default)
func WithStore(store profile.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithValidator validates profiles before they are saved
func WithValidator(v contracts.Validator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

// WithLogger sets the logger
func WithLogger(l contracts.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.Named("host")
		}
	}
}

// WithEditorDefaults sets per-editor config applied under every render config
func WithEditorDefaults(defaults map[string]contracts.EditorConfig) Option {
	return func(s *Service) {
		s.defaults = normalizeDefaults(defaults)
	}
}

func normalizeDefaults(defaults map[string]contracts.EditorConfig) map[string]contracts.EditorConfig {
	out := make(map[string]contracts.EditorConfig, len(defaults))
	for name, cfg := range defaults {
		out[strings.ToLower(name)] = cfg.Clone()
	}
	return out
}

// New creates a host service around a registry
func New(reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		store:    profile.NewMemoryStore(),
		logger:   contracts.NopLogger(),
		ttl:      DefaultTTL,
		defaults: make(map[string]contracts.EditorConfig),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry
func (s *Service) Registry() *registry.Registry {
	return s.registry
}

// Config returns the editor defaults merged with cfg
func (s *Service) Config(name string, cfg contracts.EditorConfig) contracts.EditorConfig {
	s.mu.RLock()
	base := s.defaults[strings.ToLower(name)]
	s.mu.RUnlock()
	return base.Merge(cfg)
}

// SetEditorDefaults replaces every per-editor default and drops all cached
// fragments, since their configs were merged from the old defaults.
func (s *Service) SetEditorDefaults(ctx context.Context, defaults map[string]contracts.EditorConfig) error {
	normalized := normalizeDefaults(defaults)
	s.mu.Lock()
	s.defaults = normalized
	s.mu.Unlock()

	if err := s.Invalidate(ctx, ""); err != nil {
		return fmt.Errorf("invalidate render cache: %w", err)
	}
	s.logger.Info("editor defaults replaced", "editors", len(normalized))
	return nil
}

// Render creates the named editor and returns its fragment.
// Results are cached by editor, check flag and config fingerprint. A checked
// render re-probes the editor environment on every cache hit.
func (s *Service) Render(ctx context.Context, name string, cfg contracts.EditorConfig, checkCompatible bool) (*render.Fragment, error) {
	cfg = s.Config(name, cfg)
	key := cacheKey(name, checkCompatible, cfg)

	if s.cache != nil {
		var cached render.Fragment
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			if checkCompatible {
				if err := s.checkEnvironment(name); err != nil {
					if derr := s.cache.Delete(ctx, key); derr != nil {
						s.logger.WithError(derr).Warn("render cache delete failed", "editor", name)
					}
					return nil, err
				}
			}
			s.logger.Debug("render cache hit", "editor", name, "key", key)
			return &cached, nil
		case !errors.Is(err, contracts.ErrCacheMiss):
			s.logger.WithError(err).Warn("render cache read failed", "editor", name)
		}
	}

	adapter, err := s.registry.Create(name, cfg, checkCompatible)
	if err != nil {
		return nil, err
	}
	fragment := render.Build(adapter)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, fragment, s.ttl); err != nil {
			s.logger.WithError(err).Warn("render cache write failed", "editor", name)
		}
	}
	return fragment, nil
}

// RenderFirst renders the first compatible editor out of names.
// It is never cached since availability can change between calls.
func (s *Service) RenderFirst(ctx context.Context, names []string, cfg contracts.EditorConfig) (*render.Fragment, string, error) {
	adapter, chosen, err := s.registry.CreateFirstWith(names, func(name string) contracts.EditorConfig {
		return s.Config(name, cfg)
	})
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("editor selected", "editor", chosen, "candidates", names)
	return render.Build(adapter), chosen, nil
}

// RenderProfile renders a saved profile
func (s *Service) RenderProfile(ctx context.Context, name string) (*render.Fragment, error) {
	p, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	fragment, err := s.Render(ctx, p.Editor, p.Config, p.CheckCompatible)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	return fragment, nil
}

// SaveProfile validates and stores a profile. When the profile asks for
// compatibility checking its editor must accept the config right now.
func (s *Service) SaveProfile(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	p.Editor = strings.ToLower(strings.TrimSpace(p.Editor))

	if s.validator != nil {
		if err := s.validator.Validate(p); err != nil {
			return err
		}
	}
	if _, err := s.registry.Get(p.Editor); err != nil {
		return err
	}
	if p.CheckCompatible {
		if _, err := s.registry.Create(p.Editor, s.Config(p.Editor, p.Config), true); err != nil {
			return err
		}
	}

	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile %s: %w", p.Name, err)
	}
	s.logger.Info("profile saved", "profile", p.Name, "editor", p.Editor)
	return nil
}

// Profile returns a saved profile
func (s *Service) Profile(ctx context.Context, name string) (*profile.Profile, error) {
	return s.store.Get(ctx, name)
}

// Profiles lists saved profiles
func (s *Service) Profiles(ctx context.Context) ([]*profile.Profile, error) {
	return s.store.List(ctx)
}

// DeleteProfile removes a saved profile
func (s *Service) DeleteProfile(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info("profile deleted", "profile", name)
	return nil
}

// Invalidate drops cached fragments of one editor, or of all editors when name is empty
func (s *Service) Invalidate(ctx context.Context, name string) error {
	if s.cache == nil {
		return nil
	}
	prefix := keyPrefix
	if name != "" {
		prefix += name + ":"
	}
	return s.cache.DeletePrefix(ctx, prefix)
}

// checkEnvironment repeats the availability part of checked creation.
// The config part does not change for a given cache key.
func (s *Service) checkEnvironment(name string) error {
	f, err := s.registry.Get(name)
	if err != nil {
		return err
	}
	info := f.Info()
	if c, ok := info.(interface{ Check() error }); ok {
		if err := c.Check(); err != nil {
			return contracts.NewIncompatibleEditorError(info.Name(), "editor is not available: %v", err).WithCause(err)
		}
		return nil
	}
	if !info.IsAvailable() {
		return contracts.NewIncompatibleEditorError(info.Name(), "editor is not available")
	}
	return nil
}

func cacheKey(name string, check bool, cfg contracts.EditorConfig) string {
	flag := "0"
	if check {
		flag = "1"
	}
	return keyPrefix + name + ":" + flag + ":" + editor.ConfigKey(cfg)
}
