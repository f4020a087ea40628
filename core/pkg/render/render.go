// Package render merges one or more editor adapters into an HTML fragment
// with deduplicated assets, and wraps fragments into preview pages.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
)

// Fragment is the merged output of several adapters.
// It is JSON serializable so it can be cached.
type Fragment struct {
	Styles     []string `json:"styles"`
	Scripts    []string `json:"scripts"`
	Containers []string `json:"containers"`
	Inits      []string `json:"inits"`
}

// container is implemented by editor.Adapter
type container interface {
	Container() string
}

// Build merges adapters in order. Asset URLs keep their first occurrence.
func Build(adapters ...contracts.EditorAdapter) *Fragment {
	f := &Fragment{
		Styles:     make([]string, 0),
		Scripts:    make([]string, 0),
		Containers: make([]string, 0, len(adapters)),
		Inits:      make([]string, 0, len(adapters)),
	}
	seenStyles := make(map[string]bool)
	seenScripts := make(map[string]bool)

	for _, a := range adapters {
		if a == nil {
			continue
		}
		for _, u := range a.StyleURLs() {
			if !seenStyles[u] {
				seenStyles[u] = true
				f.Styles = append(f.Styles, u)
			}
		}
		for _, u := range a.ScriptURLs() {
			if !seenScripts[u] {
				seenScripts[u] = true
				f.Scripts = append(f.Scripts, u)
			}
		}

		if c, ok := a.(container); ok {
			f.Containers = append(f.Containers, c.Container())
		} else {
			f.Containers = append(f.Containers, editor.Container(editor.DefaultTag, a.Attributes(), ""))
		}
		if code := a.ScriptCode(); code != "" {
			f.Inits = append(f.Inits, code)
		}
	}
	return f
}

// Head returns stylesheet links followed by external scripts
func (f *Fragment) Head() string {
	lines := make([]string, 0, len(f.Styles)+len(f.Scripts))
	for _, u := range f.Styles {
		lines = append(lines, editor.StyleTag(u))
	}
	for _, u := range f.Scripts {
		lines = append(lines, editor.ScriptTag(u))
	}
	return strings.Join(lines, "\n")
}

// Body returns containers followed by init scripts
func (f *Fragment) Body() string {
	lines := make([]string, 0, len(f.Containers)+len(f.Inits))
	lines = append(lines, f.Containers...)
	for _, code := range f.Inits {
		lines = append(lines, editor.InlineScript(code))
	}
	return strings.Join(lines, "\n")
}

// HTML returns Head and Body as one snippet. For a single adapter it equals
// the adapter's String output.
func (f *Fragment) HTML() string {
	head, body := f.Head(), f.Body()
	switch {
	case head == "":
		return body
	case body == "":
		return head
	}
	return head + "\n" + body
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{.Head}}
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page renders a full HTML document around fragment
func Page(title string, f *Fragment) (string, error) {
	if f == nil {
		f = Build()
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		Head  template.HTML
		Body  template.HTML
	}{
		Title: title,
		Head:  template.HTML(f.Head()),
		Body:  template.HTML(f.Body()),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
