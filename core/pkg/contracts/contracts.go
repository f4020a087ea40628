// Package contracts berisi semua generic interfaces untuk editorkit.
//
// Host application hanya perlu interact dengan interface ini: an EditorFactory
// produces EditorAdapter values from an EditorConfig, and describes the editor it
// builds through EditorInfo (or SourceEditorInfo for code editors). Concrete
// editors live in their own packages and are never referenced by host code.
package contracts

// EditorConfig adalah open-ended configuration bag untuk satu editor instance.
// Keys and value shapes are defined by each factory; validation happens at the
// factory boundary.
type EditorConfig map[string]any

// Clone returns a shallow copy of the config
func (c EditorConfig) Clone() EditorConfig {
	if c == nil {
		return EditorConfig{}
	}
	out := make(EditorConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new config with overrides applied on top of c
func (c EditorConfig) Merge(overrides EditorConfig) EditorConfig {
	out := c.Clone()
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
