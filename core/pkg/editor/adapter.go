package editor

import (
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// DefaultTag is the container element used when AdapterSpec.Tag is empty
const DefaultTag = "div"

// AdapterSpec holds everything an Adapter renders
type AdapterSpec struct {
	// Tag is the container element name (div, textarea, ...)
	Tag string

	// Content is placed inside the container, HTML escaped
	Content string

	Attributes map[string]string
	StyleURLs  []string
	ScriptURLs []string
	ScriptCode string
}

// Adapter is an immutable contracts.EditorAdapter.
// Accessors return copies so callers cannot change its state.
type Adapter struct {
	tag        string
	content    string
	attributes map[string]string
	styleURLs  []string
	scriptURLs []string
	scriptCode string
	text       string
}

// NewAdapter creates an adapter from spec. Empty URLs are dropped.
func NewAdapter(spec AdapterSpec) *Adapter {
	tag := spec.Tag
	if tag == "" {
		tag = DefaultTag
	}

	a := &Adapter{
		tag:        tag,
		content:    spec.Content,
		attributes: make(map[string]string, len(spec.Attributes)),
		styleURLs:  compact(spec.StyleURLs),
		scriptURLs: compact(spec.ScriptURLs),
		scriptCode: spec.ScriptCode,
	}
	for k, v := range spec.Attributes {
		if k == "" {
			continue
		}
		a.attributes[k] = v
	}
	a.text = a.render()
	return a
}

// Tag returns the container element name
func (a *Adapter) Tag() string {
	return a.tag
}

// Attributes returns a copy of the container attributes
func (a *Adapter) Attributes() map[string]string {
	return maps.Clone(a.attributes)
}

// StyleURLs returns a copy of the stylesheet URLs
func (a *Adapter) StyleURLs() []string {
	return slices.Clone(a.styleURLs)
}

// ScriptURLs returns a copy of the script URLs
func (a *Adapter) ScriptURLs() []string {
	return slices.Clone(a.scriptURLs)
}

// ScriptCode returns the inline init code
func (a *Adapter) ScriptCode() string {
	return a.scriptCode
}

// String returns the HTML fragment for the editor
func (a *Adapter) String() string {
	return a.text
}

// Container returns only the container element HTML
func (a *Adapter) Container() string {
	return Container(a.tag, a.attributes, a.content)
}

func (a *Adapter) render() string {
	var b strings.Builder
	for _, u := range a.styleURLs {
		b.WriteString(StyleTag(u))
		b.WriteByte('\n')
	}
	for _, u := range a.scriptURLs {
		b.WriteString(ScriptTag(u))
		b.WriteByte('\n')
	}
	b.WriteString(a.Container())
	if a.scriptCode != "" {
		b.WriteByte('\n')
		b.WriteString(InlineScript(a.scriptCode))
	}
	return b.String()
}

// Container renders an element with attributes sorted by name
func Container(tag string, attributes map[string]string, content string) string {
	if tag == "" {
		tag = DefaultTag
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, k := range slices.Sorted(maps.Keys(attributes)) {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attributes[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	b.WriteString(html.EscapeString(content))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
	return b.String()
}

// StyleTag renders a stylesheet link
func StyleTag(url string) string {
	return `<link rel="stylesheet" href="` + html.EscapeString(url) + `">`
}

// ScriptTag renders an external script tag
func ScriptTag(url string) string {
	return `<script src="` + html.EscapeString(url) + `"></script>`
}

// InlineScript wraps code in a script element.
// A literal "</script" inside code is split so it cannot end the element early.
func InlineScript(code string) string {
	code = strings.ReplaceAll(code, "</script", `<\/script`)
	return "<script>" + code + "</script>"
}

func compact(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Ensure Adapter implements contracts.EditorAdapter
var _ contracts.EditorAdapter = (*Adapter)(nil)
