package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/madcok-co/editorkit/contrib/config"
	gormstore "github.com/madcok-co/editorkit/contrib/database/gorm"
	"github.com/madcok-co/editorkit/contrib/validator/playground"
	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"github.com/madcok-co/editorkit/core/pkg/resilience"
)

func newTestApp(t *testing.T, overrides map[string]any) *App {
	t.Helper()
	t.Chdir(t.TempDir())

	base := map[string]any{"log.level": "error", "log.output": filepath.Join(t.TempDir(), "app.log")}
	for k, v := range overrides {
		base[k] = v
	}

	a, err := New(context.Background(), Options{Overrides: base})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_Defaults(t *testing.T) {
	a := newTestApp(t, nil)

	if got := strings.Join(a.Registry.Names(), ","); got != "textarea,codemirror,tinymce,demo" {
		t.Errorf("unexpected editors %s", got)
	}
	if got := a.Candidates(); len(got) != 1 || got[0] != "textarea" {
		t.Errorf("unexpected candidates %v", got)
	}

	fragment, err := a.Service.Render(context.Background(), "textarea", nil, true)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(fragment.HTML(), "<textarea") {
		t.Errorf("unexpected html %s", fragment.HTML())
	}

	srv := a.Server()
	if srv.Address() != "127.0.0.1:8080" {
		t.Errorf("unexpected address %s", srv.Address())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := New(context.Background(), Options{Overrides: map[string]any{"cache.driver": "memcached"}})
	if err == nil || !strings.Contains(err.Error(), "invalid host config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestNew_RedisAndSQLite(t *testing.T) {
	mr := miniredis.RunT(t)
	dsn := filepath.Join(t.TempDir(), "profiles.db")

	a := newTestApp(t, map[string]any{
		"cache.driver":    "redis",
		"cache.addr":      mr.Addr(),
		"cache.prefix":    "ek",
		"database.driver": "sqlite",
		"database.dsn":    dsn,
	})
	ctx := context.Background()

	if _, err := a.Service.Render(ctx, "demo", contracts.EditorConfig{"element": "#x"}, true); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 1 || !strings.HasPrefix(keys[0], "ek:render:demo:1:") {
		t.Errorf("expected cached fragment in redis, got %v", keys)
	}

	if err := a.Service.SaveProfile(ctx, &profile.Profile{Name: "notes", Editor: "textarea"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	a.Close()

	store, err := gormstore.OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, err := store.Get(ctx, "notes"); err != nil {
		t.Errorf("expected profile in sqlite, got %v", err)
	}
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	addr := mr.Addr()
	mr.Close()

	t.Chdir(t.TempDir())
	_, err = New(context.Background(), Options{
		Overrides: map[string]any{
			"log.level":    "error",
			"cache.driver": "redis",
			"cache.addr":   addr,
		},
		Connect: &resilience.Backoff{Attempts: 2, Initial: time.Millisecond},
	})
	if err == nil || !strings.Contains(err.Error(), "redis cache") {
		t.Fatalf("expected redis error, got %v", err)
	}

	var exhausted *resilience.ExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 2 {
		t.Errorf("expected two connect attempts, got %v", err)
	}
}

func TestNewRegistry_AssetSettings(t *testing.T) {
	cfg := &config.HostConfig{
		CodeMirror: config.CodeMirrorConfig{
			BaseURL:   "/static/codemirror",
			AssetDir:  filepath.Join(t.TempDir(), "missing"),
			Languages: []string{"go"},
		},
		TinyMCE: config.TinyMCEConfig{APIKey: "key"},
	}
	reg := NewRegistry(cfg, playground.NewDriver(), contracts.NopLogger())

	available := strings.Join(reg.Available(), ",")
	if available != "textarea,tinymce,demo" {
		t.Errorf("codemirror should be unavailable without assets, got %s", available)
	}

	if _, err := reg.Create("tinymce", nil, true); err != nil {
		t.Errorf("tinymce with api key should be compatible: %v", err)
	}

	d, err := reg.Lookup("codemirror")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(d.Languages, ",") != "go" {
		t.Errorf("unexpected languages %v", d.Languages)
	}
}

func writeAppConfig(t *testing.T, path string, rows int) {
	t.Helper()
	content := fmt.Sprintf("log:\n  level: error\n  output: %s\neditors:\n  textarea:\n    rows: %d\n",
		filepath.Join(filepath.Dir(path), "app.log"), rows)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func renderRows(t *testing.T, a *App) string {
	t.Helper()
	fragment, err := a.Service.Render(context.Background(), "textarea", nil, false)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return fragment.HTML()
}

func TestApp_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorkit.yaml")
	writeAppConfig(t, path, 4)

	a, err := New(context.Background(), Options{ConfigFile: path})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if html := renderRows(t, a); !strings.Contains(html, `rows="4"`) {
		t.Fatalf("unexpected html %s", html)
	}

	writeAppConfig(t, path, 7)
	if err := a.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if html := renderRows(t, a); !strings.Contains(html, `rows="7"`) {
		t.Errorf("expected reloaded defaults, got %s", html)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := a.Reload(context.Background()); err == nil {
		t.Error("expected invalid config to be rejected")
	}
	if html := renderRows(t, a); !strings.Contains(html, `rows="7"`) {
		t.Errorf("rejected config must keep previous defaults, got %s", html)
	}
}

func TestApp_WatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editorkit.yaml")
	writeAppConfig(t, path, 4)

	a, err := New(context.Background(), Options{ConfigFile: path, Watch: true})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	renderRows(t, a)
	writeAppConfig(t, path, 12)

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(renderRows(t, a), `rows="12"`) {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for watched config to apply")
		}
		time.Sleep(20 * time.Millisecond)
	}
}
