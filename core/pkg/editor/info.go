package editor

import (
	"slices"
	"strings"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// Info implements contracts.EditorInfo.
// Availability is delegated to an optional Prerequisite; nil means always available.
type Info struct {
	name    string
	version string
	license string
	probe   Prerequisite
}

// NewInfo creates editor info
func NewInfo(name, version, license string, probe Prerequisite) *Info {
	return &Info{
		name:    name,
		version: version,
		license: license,
		probe:   probe,
	}
}

// Name returns the editor name
func (i *Info) Name() string {
	return i.name
}

// Version returns the editor version
func (i *Info) Version() string {
	return i.version
}

// License returns the editor license
func (i *Info) License() string {
	return i.license
}

// IsAvailable reports whether the prerequisite is currently satisfied
func (i *Info) IsAvailable() bool {
	return i.Check() == nil
}

// Check returns why the editor is unavailable, or nil.
// A panicking probe is reported as an error.
func (i *Info) Check() (err error) {
	if i.probe == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &ProbeError{Prerequisite: i.probe.String(), Reason: "probe panicked"}
		}
	}()
	return i.probe.Check()
}

// Prerequisite returns the configured probe (may be nil)
func (i *Info) Prerequisite() Prerequisite {
	return i.probe
}

// SourceInfo implements contracts.SourceEditorInfo
type SourceInfo struct {
	*Info
	languages []string
}

// NewSourceInfo creates source editor info. Languages are lowercased,
// deduplicated and sorted.
func NewSourceInfo(info *Info, languages ...string) *SourceInfo {
	return &SourceInfo{
		Info:      info,
		languages: NormalizeLanguages(languages),
	}
}

// SupportedLanguages returns a copy of the language set
func (s *SourceInfo) SupportedLanguages() []string {
	return slices.Clone(s.languages)
}

// Supports checks if a language is in the set (case-insensitive)
func (s *SourceInfo) Supports(language string) bool {
	_, found := slices.BinarySearch(s.languages, strings.ToLower(strings.TrimSpace(language)))
	return found
}

// NormalizeLanguages lowercases, trims, deduplicates and sorts language identifiers
func NormalizeLanguages(languages []string) []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

var (
	_ contracts.EditorInfo       = (*Info)(nil)
	_ contracts.SourceEditorInfo = (*SourceInfo)(nil)
)
