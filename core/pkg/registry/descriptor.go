package registry

import (
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

// Descriptor is a JSON friendly snapshot of an EditorInfo
type Descriptor struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	License   string   `json:"license"`
	Available bool     `json:"available"`
	Source    bool     `json:"source"`
	Languages []string `json:"languages,omitempty"`

	// Requires describes what availability depends on, when known
	Requires string `json:"requires,omitempty"`
}

// Describe snapshots info. Languages are only set for source editors;
// Requires is set when info exposes a non-nil prerequisite.
func Describe(info contracts.EditorInfo) Descriptor {
	d := Descriptor{
		Name:      info.Name(),
		Version:   info.Version(),
		License:   info.License(),
		Available: info.IsAvailable(),
	}
	if src, ok := info.(contracts.SourceEditorInfo); ok {
		d.Source = true
		d.Languages = src.SupportedLanguages()
	}
	if p, ok := info.(interface{ Prerequisite() editor.Prerequisite }); ok && p.Prerequisite() != nil {
		d.Requires = p.Prerequisite().String()
	}
	return d
}

// Describe returns descriptors for every registered editor
func (r *Registry) Describe() []Descriptor {
	infos := r.Infos()
	result := make([]Descriptor, 0, len(infos))
	for _, info := range infos {
		result = append(result, Describe(info))
	}
	return result
}

// Lookup returns the descriptor of a single editor
func (r *Registry) Lookup(name string) (Descriptor, error) {
	f, err := r.Get(name)
	if err != nil {
		return Descriptor{}, err
	}
	return Describe(f.Info()), nil
}
