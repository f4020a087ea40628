package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/madcok-co/editorkit/core/pkg/adapters/editor/demo"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

// bare implements contracts.EditorAdapter without a Container method
type bare struct{}

func (bare) String() string                { return "" }
func (bare) Attributes() map[string]string { return map[string]string{"id": "x"} }
func (bare) StyleURLs() []string           { return []string{"a.css"} }
func (bare) ScriptURLs() []string          { return nil }
func (bare) ScriptCode() string            { return "" }

func TestBuild_SingleAdapterMatchesString(t *testing.T) {
	adapter, err := demo.NewFactory().Create(contracts.EditorConfig{"element": "#body"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := Build(adapter).HTML(), adapter.String(); got != want {
		t.Errorf("fragment html differs from adapter string:\n got: %s\nwant: %s", got, want)
	}
}

func TestBuild_Dedupe(t *testing.T) {
	a := editor.NewAdapter(editor.AdapterSpec{
		Attributes: map[string]string{"id": "one"},
		StyleURLs:  []string{"a.css", "b.css"},
		ScriptURLs: []string{"lib.js", "one.js"},
		ScriptCode: "init('one');",
	})
	b := editor.NewAdapter(editor.AdapterSpec{
		Tag:        "textarea",
		Attributes: map[string]string{"id": "two"},
		StyleURLs:  []string{"b.css", "c.css"},
		ScriptURLs: []string{"lib.js"},
	})

	f := Build(a, nil, b, bare{})

	if got := strings.Join(f.Styles, ","); got != "a.css,b.css,c.css" {
		t.Errorf("unexpected styles %s", got)
	}
	if got := strings.Join(f.Scripts, ","); got != "lib.js,one.js" {
		t.Errorf("unexpected scripts %s", got)
	}
	if len(f.Containers) != 3 {
		t.Fatalf("expected 3 containers, got %d", len(f.Containers))
	}
	if f.Containers[1] != `<textarea id="two"></textarea>` {
		t.Errorf("unexpected container %s", f.Containers[1])
	}
	if f.Containers[2] != `<div id="x"></div>` {
		t.Errorf("expected div fallback, got %s", f.Containers[2])
	}
	if len(f.Inits) != 1 {
		t.Errorf("expected 1 init, got %v", f.Inits)
	}

	if strings.Count(f.HTML(), "lib.js") != 1 {
		t.Errorf("lib.js should be loaded once:\n%s", f.HTML())
	}
}

func TestFragment_Empty(t *testing.T) {
	f := Build()
	if f.HTML() != "" {
		t.Errorf("expected empty html, got %q", f.HTML())
	}

	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"styles":[],"scripts":[],"containers":[],"inits":[]}` {
		t.Errorf("unexpected json %s", raw)
	}
}

func TestPage(t *testing.T) {
	adapter, err := demo.NewFactory().Create(nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := Page("<Preview>", Build(adapter))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Errorf("missing doctype:\n%s", page)
	}
	if !strings.Contains(page, "<title>&lt;Preview&gt;</title>") {
		t.Errorf("title should be escaped:\n%s", page)
	}
	if !strings.Contains(page, `<script src="demo.js"></script>`) {
		t.Errorf("head should not be escaped:\n%s", page)
	}
	if !strings.Contains(page, "Demo.init('#editor');") {
		t.Errorf("missing init script:\n%s", page)
	}

	if _, err := Page("empty", nil); err != nil {
		t.Errorf("unexpected error for nil fragment: %v", err)
	}
}
