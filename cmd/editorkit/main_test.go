package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/registry"
	"github.com/madcok-co/editorkit/internal/app"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "editorkit.yaml")
	content := `log:
  level: error
  output: ` + filepath.Join(dir, "editorkit.log") + `
cache:
  driver: none
database:
  driver: sqlite
  dsn: ` + filepath.Join(dir, "profiles.db") + `
editor:
  default: tinymce
  fallbacks: [textarea]
editors:
  textarea:
    rows: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmdIncludesCoreCommands(t *testing.T) {
	cmd := newRootCmd()
	got := map[string]bool{}
	for _, c := range cmd.Commands() {
		got[c.Name()] = true
	}
	for _, want := range []string{"list", "render", "serve", "profile"} {
		if !got[want] {
			t.Fatalf("expected command %q", want)
		}
	}
}

func TestParseSets(t *testing.T) {
	cfg, err := parseSets([]string{"element=#body", "toolbar=bold | italic", "query=a=b", " rows =3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg["element"] != "#body" || cfg["toolbar"] != "bold | italic" || cfg["query"] != "a=b" || cfg["rows"] != "3" {
		t.Errorf("unexpected config %v", cfg)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseSets([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestListCommand(t *testing.T) {
	config := writeConfig(t)

	out, err := run(t, "--config", config, "--json", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var descriptors []registry.Descriptor
	if err := json.Unmarshal([]byte(out), &descriptors); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	if strings.Join(names, ",") != "textarea,codemirror,tinymce,demo" {
		t.Errorf("unexpected editors %v", names)
	}

	out, err = run(t, "--config", config, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "NAME") || !strings.Contains(out, "codemirror") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	config := writeConfig(t)

	t.Run("named editor", func(t *testing.T) {
		out, err := run(t, "--config", config, "render", "demo", "--set", "element=#body", "--check")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Demo.init('#body');") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("fallback with editor defaults", func(t *testing.T) {
		// tinymce has no api key configured, so the checked attempt falls back
		out, err := run(t, "--config", config, "--json", "render")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var resp struct {
			Editor string `json:"editor"`
			HTML   string `json:"html"`
		}
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("invalid json %q: %v", out, err)
		}
		if resp.Editor != "textarea" || !strings.Contains(resp.HTML, `rows="4"`) {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("page", func(t *testing.T) {
		out, err := run(t, "--config", config, "render", "textarea", "--page")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(out, "<!DOCTYPE html>") {
			t.Errorf("expected full page:\n%s", out)
		}
	})

	t.Run("incompatible", func(t *testing.T) {
		_, err := run(t, "--config", config, "render", "codemirror", "--set", "mode=cobol", "--check")
		if err == nil || !strings.Contains(err.Error(), "codemirror") {
			t.Errorf("expected incompatibility error, got %v", err)
		}
	})

	t.Run("bad set flag", func(t *testing.T) {
		if _, err := run(t, "--config", config, "render", "demo", "--set", "oops"); err == nil {
			t.Error("expected error")
		}
	})
}

func TestProfileCommands(t *testing.T) {
	config := writeConfig(t)

	out, err := run(t, "--config", config, "profile", "save", "api", "codemirror", "--set", "mode=go", "--check")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.Contains(out, "saved profile api (codemirror)") {
		t.Errorf("unexpected output %q", out)
	}

	// profiles persist in sqlite between invocations
	out, err = run(t, "--config", config, "profile", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "- api (codemirror) check=true") {
		t.Errorf("unexpected list %q", out)
	}

	out, err = run(t, "--config", config, "profile", "render", "api")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "mode/go/go.min.js") {
		t.Errorf("unexpected render output:\n%s", out)
	}

	if _, err := run(t, "--config", config, "profile", "delete", "api"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := run(t, "--config", config, "profile", "render", "api"); err == nil {
		t.Error("expected error rendering deleted profile")
	}

	out, _ = run(t, "--config", config, "profile", "list")
	if !strings.Contains(out, "no profiles saved") {
		t.Errorf("unexpected list %q", out)
	}
}

func TestServeCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	serve, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"addr", "watch"} {
		if serve.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestReloadOnSignal(t *testing.T) {
	path := writeConfig(t)
	a, err := app.New(context.Background(), app.Options{ConfigFile: path})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	go func() {
		reloadOnSignal(ctx, a, signals)
		close(done)
	}()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	updated := strings.Replace(string(content), "rows: 4", "rows: 11", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	signals <- syscall.SIGHUP

	deadline := time.Now().Add(5 * time.Second)
	for {
		fragment, err := a.Service.Render(ctx, "textarea", nil, false)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(fragment.HTML(), `rows="11"`) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("reload was not applied: %s", fragment.HTML())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-done
}
