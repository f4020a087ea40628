// Package editor provides building blocks for editor factory implementations:
// an immutable adapter value, info types with availability probes, config
// decoding and small HTML/JavaScript helpers.
//
// Usage:
//
//	info := editor.NewInfo("demo", "1.0.0", "MIT", editor.Executable("node"))
//
//	adapter := editor.NewAdapter(editor.AdapterSpec{
//	    Attributes: map[string]string{"id": "editor"},
//	    ScriptURLs: []string{"demo.js"},
//	    ScriptCode: "Demo.init('#editor');",
//	})
package editor
