package textarea

import (
	"reflect"
	"testing"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor/editortest"
)

func TestFactory_Create(t *testing.T) {
	f := NewFactory()
	editortest.AssertInfoStable(t, f)

	adapter := editortest.AssertCheckedMatchesUnchecked(t, f, contracts.EditorConfig{
		"element":     "#body",
		"rows":        "5",
		"placeholder": "Write something",
		"read_only":   true,
		"content":     "hello <world>",
	})

	want := map[string]string{
		"id":          "body",
		"name":        "body",
		"rows":        "5",
		"cols":        "80",
		"placeholder": "Write something",
		"readonly":    "readonly",
	}
	if got := adapter.Attributes(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected attributes:\n got: %v\nwant: %v", got, want)
	}
	if len(adapter.ScriptURLs()) != 0 || len(adapter.StyleURLs()) != 0 || adapter.ScriptCode() != "" {
		t.Error("textarea should not need any assets")
	}

	wantHTML := `<textarea cols="80" id="body" name="body" placeholder="Write something" readonly="readonly" rows="5">hello &lt;world&gt;</textarea>`
	if adapter.String() != wantHTML {
		t.Errorf("unexpected html:\n got: %s\nwant: %s", adapter.String(), wantHTML)
	}
}

func TestFactory_Defaults(t *testing.T) {
	adapter, err := NewFactory().Create(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attrs := adapter.Attributes()
	if attrs["id"] != "editor" || attrs["rows"] != "10" || attrs["cols"] != "80" {
		t.Errorf("unexpected defaults: %v", attrs)
	}
	if _, ok := attrs["readonly"]; ok {
		t.Error("readonly should not be set by default")
	}
}

func TestFactory_Incompatible(t *testing.T) {
	f := NewFactory()

	tests := map[string]contracts.EditorConfig{
		"unknown option":  {"theme": "dark"},
		"class selector":  {"element": ".body"},
		"zero rows":       {"rows": 0},
		"negative cols":   {"cols": -1},
		"undecodable int": {"rows": "many"},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			editortest.AssertIncompatible(t, f, cfg)
		})
	}
}
