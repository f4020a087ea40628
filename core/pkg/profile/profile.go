// Package profile stores named editor presets: which editor to use and the
// config to create it with.
package profile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// ErrNotFound is returned when a profile does not exist
var ErrNotFound = errors.New("profile not found")

// Profile is a saved editor preset
type Profile struct {
	Name            string                 `json:"name" mapstructure:"name" validate:"required,max=64,excludesall=/?#"`
	Editor          string                 `json:"editor" mapstructure:"editor" validate:"required"`
	Config          contracts.EditorConfig `json:"config,omitempty" mapstructure:"config"`
	CheckCompatible bool                   `json:"check_compatible" mapstructure:"check_compatible"`
	UpdatedAt       time.Time              `json:"updated_at" mapstructure:"-"`
}

// Store persists profiles
type Store interface {
	Save(ctx context.Context, p *Profile) error
	Get(ctx context.Context, name string) (*Profile, error)
	// List returns every profile ordered by name
	List(ctx context.Context) ([]*Profile, error)
	Delete(ctx context.Context, name string) error
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*Profile),
		now:      time.Now,
	}
}

// Save inserts or replaces a profile and stamps UpdatedAt
func (s *MemoryStore) Save(ctx context.Context, p *Profile) error {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return errors.New("profile: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := p.clone()
	cp.UpdatedAt = s.now().UTC()
	s.profiles[cp.Name] = cp
	p.UpdatedAt = cp.UpdatedAt
	return nil
}

// Get returns a copy of the named profile
func (s *MemoryStore) Get(ctx context.Context, name string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

// List returns copies of all profiles ordered by name
func (s *MemoryStore) List(ctx context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p.clone())
	}
	slices.SortFunc(result, func(a, b *Profile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}

// Delete removes a profile
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return ErrNotFound
	}
	delete(s.profiles, name)
	return nil
}

func (p *Profile) clone() *Profile {
	cp := *p
	cp.Config = p.Config.Clone()
	return &cp
}

var _ Store = (*MemoryStore)(nil)
