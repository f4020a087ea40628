// Package editortest provides conformance checks for contracts.EditorFactory
// implementations. Run them from a factory's own tests:
//
//	editortest.AssertCheckedMatchesUnchecked(t, factory, cfg)
package editortest

import (
	"errors"
	"testing"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// Snapshot captures every structured output of an adapter
type Snapshot struct {
	Attributes map[string]string
	StyleURLs  []string
	ScriptURLs []string
	ScriptCode string
	Text       string
}

// Take reads all outputs of a
func Take(a contracts.EditorAdapter) Snapshot {
	return Snapshot{
		Attributes: a.Attributes(),
		StyleURLs:  a.StyleURLs(),
		ScriptURLs: a.ScriptURLs(),
		ScriptCode: a.ScriptCode(),
		Text:       a.String(),
	}
}

// Equal compares snapshots, treating nil and empty collections as equal
func (s Snapshot) Equal(o Snapshot) bool {
	return equalMap(s.Attributes, o.Attributes) &&
		equalSlice(s.StyleURLs, o.StyleURLs) &&
		equalSlice(s.ScriptURLs, o.ScriptURLs) &&
		s.ScriptCode == o.ScriptCode &&
		s.Text == o.Text
}

// AssertAdapterStable checks that reading an adapter twice gives equal
// results and that mutating returned collections does not leak back
func AssertAdapterStable(t *testing.T, a contracts.EditorAdapter) {
	t.Helper()

	first := Take(a)
	if first.Attributes != nil {
		first.Attributes["__mutated"] = "x"
	}
	if len(first.ScriptURLs) > 0 {
		first.ScriptURLs[0] = "mutated.js"
	}
	if len(first.StyleURLs) > 0 {
		first.StyleURLs[0] = "mutated.css"
	}

	first = Take(a)
	second := Take(a)
	if !first.Equal(second) {
		t.Fatalf("adapter outputs changed between calls:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if _, ok := second.Attributes["__mutated"]; ok {
		t.Fatal("Attributes() exposes internal state")
	}
	for k, v := range second.Attributes {
		if k == "" {
			t.Fatalf("attribute with empty name (value %q)", v)
		}
	}
}

// AssertInfoStable checks that descriptive info is fixed and IsAvailable does not panic
func AssertInfoStable(t *testing.T, f contracts.EditorFactory) {
	t.Helper()

	a, b := f.Info(), f.Info()
	if a == nil || b == nil {
		t.Fatal("Info() returned nil")
	}
	if a.Name() != b.Name() || a.Version() != b.Version() || a.License() != b.License() {
		t.Fatalf("info changed between calls: %s/%s/%s vs %s/%s/%s",
			a.Name(), a.Version(), a.License(), b.Name(), b.Version(), b.License())
	}
	if a.Name() == "" {
		t.Error("editor name should not be empty")
	}
	_ = a.IsAvailable()

	if src, ok := a.(contracts.SourceEditorInfo); ok {
		if !equalSlice(src.SupportedLanguages(), src.SupportedLanguages()) {
			t.Error("SupportedLanguages() changed between calls")
		}
	}
}

// AssertCheckedMatchesUnchecked creates cfg with and without the compatibility
// check and requires equal outputs. It returns the checked adapter.
func AssertCheckedMatchesUnchecked(t *testing.T, f contracts.EditorFactory, cfg contracts.EditorConfig) contracts.EditorAdapter {
	t.Helper()

	checked, err := f.Create(cfg, true)
	if err != nil {
		t.Fatalf("checked create failed: %v", err)
	}
	if checked == nil {
		t.Fatal("checked create returned nil adapter without error")
	}
	unchecked, err := f.Create(cfg, false)
	if err != nil {
		t.Fatalf("unchecked create failed after checked create succeeded: %v", err)
	}

	if c, u := Take(checked), Take(unchecked); !c.Equal(u) {
		t.Fatalf("checked and unchecked outputs differ:\nchecked:   %+v\nunchecked: %+v", c, u)
	}
	AssertAdapterStable(t, checked)
	return checked
}

// AssertIncompatible requires a checked create of cfg to fail with an
// incompatibility error and no adapter. It returns the error.
func AssertIncompatible(t *testing.T, f contracts.EditorFactory, cfg contracts.EditorConfig) *contracts.IncompatibleEditorError {
	t.Helper()

	adapter, err := f.Create(cfg, true)
	if err == nil {
		t.Fatalf("expected incompatibility error, got adapter %v", adapter)
	}
	if adapter != nil {
		t.Fatalf("expected no adapter with error %v", err)
	}

	var incompatible *contracts.IncompatibleEditorError
	if !errors.As(err, &incompatible) {
		t.Fatalf("expected *IncompatibleEditorError, got %T: %v", err, err)
	}
	if incompatible.Error() == "" {
		t.Fatal("incompatibility error has empty message")
	}
	return incompatible
}

func equalMap(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func equalSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
